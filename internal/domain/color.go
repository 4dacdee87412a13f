package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultColor is the marker color preselected in the new-route form.
var DefaultColor = Color{R: 0x63, G: 0x66, B: 0xf1}

// RouteLineAlpha is the opacity of the path drawn between stops. The route
// line is always the marker color at this opacity.
const RouteLineAlpha = 0.7

// Color is an opaque RGB marker color. It travels as "#rrggbb" in JSON.
type Color struct {
	R, G, B uint8
}

// ParseColor accepts "#rrggbb" or "#rgb", with or without the leading '#'.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: invalid color %q", ErrValidation, s)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// Hex returns the lowercase "#rrggbb" form.
func (c Color) Hex() string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

// RouteLine returns the translucent route-line color as "#rrggbbaa".
func (c Color) RouteLine() string {
	return fmt.Sprintf("%s%02x", c.Hex(), uint8(RouteLineAlpha*255+0.5))
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hex())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
