package geo

import (
	"fmt"
	"strconv"

	"github.com/pkordes/routecards/internal/domain"
)

// NavLink is a deep link into an external map or navigation app.
// Opening one leaves the app, so callers must confirm with the user first.
type NavLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// NavigationLinks returns the Google Maps and Waze links for a stop, or nil
// when the stop has no coordinates.
func NavigationLinks(s domain.Stop) []NavLink {
	if !s.HasCoords() {
		return nil
	}
	lat := formatCoord(s.Latitude)
	lon := formatCoord(s.Longitude)
	return []NavLink{
		{Label: "Google Maps", URL: fmt.Sprintf("https://maps.google.com/?q=%s,%s", lat, lon)},
		{Label: "Waze", URL: fmt.Sprintf("https://waze.com/ul?ll=%s,%s&navigate=yes", lat, lon)},
	}
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
