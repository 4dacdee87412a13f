package service

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkordes/routecards/internal/domain"
)

// StopDraft is the raw add-stop form. Numeric fields stay strings until
// validation so half-typed input never blocks the form.
type StopDraft struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Delivery  string `json:"delivery"`
	Km        string `json:"km"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// ValidateStop turns a draft into a Stop numbered no.
//   - Name must be non-empty after trimming; it is the only required field.
//   - An empty code becomes "X" + the zero-padded stop number.
//   - An empty delivery becomes Daily; an unknown one is rejected.
//   - Km, latitude and longitude parse leniently: a leading number is kept
//     and anything without one is 0.
func ValidateStop(d StopDraft, no int) (domain.Stop, error) {
	var verr domain.ValidationError

	name := strings.TrimSpace(d.Name)
	if name == "" {
		verr.Add("name", "name is required")
	}

	delivery := domain.DeliveryDaily
	if strings.TrimSpace(d.Delivery) != "" {
		parsed, ok := domain.ParseDelivery(d.Delivery)
		if !ok {
			verr.Add("delivery", fmt.Sprintf("unknown delivery %q", d.Delivery))
		}
		delivery = parsed
	}

	if err := verr.OrNil(); err != nil {
		return domain.Stop{}, err
	}

	code := strings.TrimSpace(d.Code)
	if code == "" {
		code = PlaceholderCode(no)
	}

	return domain.Stop{
		No:           no,
		Code:         code,
		Name:         name,
		Delivery:     delivery,
		Km:           ParseKm(d.Km),
		Latitude:     ParseLenientFloat(d.Latitude),
		Longitude:    ParseLenientFloat(d.Longitude),
		Descriptions: []domain.Description{},
		AvatarImages: []string{},
	}, nil
}

// PlaceholderCode is the code given to stops entered without one, e.g. X007.
func PlaceholderCode(no int) string {
	return fmt.Sprintf("X%03d", no)
}

// leadingFloat matches the longest numeric prefix: optional sign, digits with
// at most one dot, and an optional exponent.
var leadingFloat = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseLenientFloat reads the number s starts with, ignoring whatever trails
// it, so "3.5 km" is 3.5 and "-73.98 W" is -73.98. Input with no leading
// number, or one that is not finite, yields 0. Data entry is never blocked
// by a bad number.
func ParseLenientFloat(s string) float64 {
	num := leadingFloat.FindString(strings.TrimSpace(s))
	if num == "" {
		return 0
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseKm is ParseLenientFloat for distances, which cannot be negative.
func ParseKm(s string) float64 {
	return math.Max(ParseLenientFloat(s), 0)
}
