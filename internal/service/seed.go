package service

import (
	"time"

	"github.com/pkordes/routecards/internal/domain"
)

type seedStop struct {
	code     string
	name     string
	delivery domain.Delivery
	km       float64
	lat, lon float64
}

type seedRoute struct {
	title, city, country string
	description          string
	tags                 []string
	color                domain.Color
	created              time.Time
	stops                []seedStop
}

var demoRoutes = []seedRoute{
	{
		title:       "Advanced Card",
		city:        "New York",
		country:     "USA",
		description: "Midtown and downtown Manhattan loop.",
		tags:        []string{"Design", "React", "PrimeReact"},
		color:       domain.Color{R: 0x3b, G: 0x82, B: 0xf6},
		created:     time.Date(2026, 2, 27, 8, 15, 0, 0, time.UTC),
		stops: []seedStop{
			{"A001", "Times Square", domain.DeliveryDaily, 5.2, 40.7580, -73.9855},
			{"A002", "Financial District", domain.DeliveryWeekday, 8.1, 40.7075, -74.0113},
			{"A003", "Central Park", domain.DeliveryAlt1, 12.3, 40.7851, -73.9683},
			{"A004", "East Village", domain.DeliveryAlt2, 15.7, 40.7264, -73.9813},
			{"A005", "Hell's Kitchen", domain.DeliveryDaily, 7.4, 40.7640, -74.0005},
		},
	},
	{
		title:       "Nature Card",
		city:        "Paris",
		country:     "France",
		description: "Left and right bank landmarks.",
		tags:        []string{"Nature", "Photo", "Travel"},
		color:       domain.Color{R: 0xf9, G: 0x73, B: 0x16},
		created:     time.Date(2026, 2, 27, 11, 42, 0, 0, time.UTC),
		stops: []seedStop{
			{"B001", "Eiffel Tower", domain.DeliveryDaily, 3.5, 48.8584, 2.2945},
			{"B002", "Louvre Museum", domain.DeliveryWeekday, 6.2, 48.8606, 2.3376},
			{"B003", "Notre-Dame", domain.DeliveryAlt1, 4.8, 48.8530, 2.3499},
			{"B004", "Montmartre", domain.DeliveryAlt2, 9.1, 48.8867, 2.3431},
			{"B005", "Champs-Élysées", domain.DeliveryDaily, 5.3, 48.8698, 2.3078},
		},
	},
	{
		title:       "City Card",
		city:        "Tokyo",
		country:     "Japan",
		description: "West side wards and the Ginza run.",
		tags:        []string{"City", "Urban", "Modern"},
		color:       domain.Color{R: 0x22, G: 0xc5, B: 0x5e},
		created:     time.Date(2026, 2, 27, 14, 5, 0, 0, time.UTC),
		stops: []seedStop{
			{"C001", "Shinjuku", domain.DeliveryDaily, 7.2, 35.6938, 139.7036},
			{"C002", "Shibuya", domain.DeliveryWeekday, 5.8, 35.6580, 139.7016},
			{"C003", "Akihabara", domain.DeliveryAlt1, 9.3, 35.7023, 139.7745},
			{"C004", "Harajuku", domain.DeliveryAlt2, 6.5, 35.6702, 139.7026},
			{"C005", "Ginza", domain.DeliveryDaily, 11.2, 35.6717, 139.7656},
		},
	},
}

// DemoRoutes builds the three sample routes shown on first launch. Each
// call returns fresh values.
func DemoRoutes() []domain.Route {
	out := make([]domain.Route, len(demoRoutes))
	for i, sr := range demoRoutes {
		rows := make([]domain.Stop, len(sr.stops))
		names := make([]string, len(sr.stops))
		for j, s := range sr.stops {
			rows[j] = domain.Stop{
				No:           j + 1,
				Code:         s.code,
				Name:         s.name,
				Delivery:     s.delivery,
				Km:           s.km,
				Latitude:     s.lat,
				Longitude:    s.lon,
				Descriptions: []domain.Description{},
				AvatarImages: []string{},
			}
			names[j] = s.name
		}
		out[i] = domain.Route{
			Title:        sr.title,
			City:         sr.city,
			Country:      sr.country,
			Code:         sr.country,
			Shift:        domain.ShiftAM,
			Description:  sr.description,
			Tags:         append([]string{}, sr.tags...),
			Color:        sr.color,
			Rows:         rows,
			Changelog:    domain.NewChangelog(names, sr.created),
			LastModified: sr.created,
		}
	}
	return out
}

// Seed imports the demo routes into rc and returns their ids.
func Seed(rc *RouteCollection) []string {
	routes := DemoRoutes()
	ids := make([]string, len(routes))
	for i, r := range routes {
		ids[i] = rc.Import(r).String()
	}
	return ids
}
