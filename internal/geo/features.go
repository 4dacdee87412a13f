// Package geo builds what the map surface and navigation apps consume from a
// route: GeoJSON geometry for the preview and deep links for each stop.
package geo

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/pkordes/routecards/internal/domain"
)

// MapView is the geometry handed to the map rendering surface.
type MapView struct {
	// Center is [latitude, longitude] of the stops' bounding box.
	Center [2]float64 `json:"center"`
	// Features holds one Point per located stop and, with two or more, the
	// LineString path connecting them in stop order.
	Features *geojson.FeatureCollection `json:"features"`
}

// RouteFeatures builds the map preview for r. Stops without coordinates are
// left off the map.
func RouteFeatures(r domain.Route) MapView {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}
	var path []float64

	for i, s := range r.Rows {
		if !s.HasCoords() {
			continue
		}
		coords := []float64{s.Longitude, s.Latitude}
		path = append(path, coords...)
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       fmt.Sprintf("stop-%d", s.No),
			Geometry: geom.NewPointFlat(geom.XY, coords),
			Properties: map[string]interface{}{
				"no":           s.No,
				"name":         s.Name,
				"popup":        fmt.Sprintf("%d. %s", i+1, s.Name),
				"marker-color": r.Color.Hex(),
			},
		})
	}

	if len(path) >= 4 {
		line := geom.NewLineStringFlat(geom.XY, path)
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       "path",
			Geometry: line,
			Properties: map[string]interface{}{
				"stroke":         r.Color.Hex(),
				"stroke-opacity": domain.RouteLineAlpha,
				"route-color":    r.Color.RouteLine(),
			},
		})
	}

	view := MapView{Features: fc}
	if len(path) == 0 {
		return view
	}
	bounds := geom.NewBounds(geom.XY)
	for _, f := range fc.Features {
		bounds.Extend(f.Geometry)
	}
	fc.BBox = bounds
	view.Center = [2]float64{
		(bounds.Min(1) + bounds.Max(1)) / 2,
		(bounds.Min(0) + bounds.Max(0)) / 2,
	}
	return view
}
