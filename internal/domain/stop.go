package domain

// Description is one free-form note on a stop. Keys are not required to be
// unique and keep their entry order.
type Description struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Stop is one visitable location within a route.
// No is unique within its route and is never reused within a session.
type Stop struct {
	No             int           `json:"no"`
	Code           string        `json:"code"`
	Name           string        `json:"name"`
	Delivery       Delivery      `json:"delivery"`
	Km             float64       `json:"km"`
	Latitude       float64       `json:"latitude"`
	Longitude      float64       `json:"longitude"`
	Descriptions   []Description `json:"descriptions"`
	QRCodeImageURL string        `json:"qrCodeImageUrl,omitempty"`
	QRCodeDestURL  string        `json:"qrCodeDestUrl,omitempty"`
	AvatarImages   []string      `json:"avatarImages"`
	AvatarImageURL string        `json:"avatarImageUrl,omitempty"`
}

// HasCoords reports whether the stop carries a usable position. A zero on
// either axis is how lenient parsing records "not entered".
func (s Stop) HasCoords() bool {
	return s.Latitude != 0 && s.Longitude != 0
}

// Clone returns a deep copy so drafts never share slices with committed state.
func (s Stop) Clone() Stop {
	out := s
	out.Descriptions = append([]Description{}, s.Descriptions...)
	out.AvatarImages = append([]string{}, s.AvatarImages...)
	return out
}
