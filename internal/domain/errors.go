package domain

import "errors"

// ErrNotFound is returned when the requested route, stop, blob or index does
// not exist in the current session.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. an empty stop name or route title).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrDecode is returned by a QR decoder when an image cannot be read or holds
// no code. It never blocks an edit: the destination URL is left for manual entry.
var ErrDecode = errors.New("decode error")

// ErrEditModeOff is returned when an editing affordance is used while the
// shell's global edit mode is disabled.
var ErrEditModeOff = errors.New("edit mode is off")

// ErrInvalidState is returned when an action is not reachable from the card's
// current panel or sub-flow (e.g. committing a cell edit that was never opened).
var ErrInvalidState = errors.New("invalid state")

// FieldError names one offending input field so the UI can show the message
// next to it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field that blocked a commit. It matches
// ErrValidation with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

// Add records a field failure.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns e when at least one field failed, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	msg := ErrValidation.Error() + ": "
	for i, f := range e.Fields {
		if i > 0 {
			msg += ", "
		}
		msg += f.Message
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
