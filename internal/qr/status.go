package qr

// Status is the caller-visible state of a QR decode.
type Status string

const (
	// StatusIdle means no decode has been requested since the panel opened.
	StatusIdle Status = "idle"
	// StatusLoading means a decode is in flight.
	StatusLoading Status = "loading"
	// StatusOK means an image was decoded.
	StatusOK Status = "ok"
	// StatusFail means the image could not be read, held no code, or could
	// not be fetched.
	StatusFail Status = "fail"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsFinished returns true once a decode has resolved either way
func (s Status) IsFinished() bool {
	return s == StatusOK || s == StatusFail
}
