package domain

// ExportRow is a single row in the flat export of every card.
// One row per stop, with route fields repeated for every stop on that route.
// Routes without stops yield one row with zero stop fields.
type ExportRow struct {
	RouteID    string
	RouteTitle string
	RouteCode  string
	Shift      Shift
	Color      string

	StopNo    int
	StopCode  string
	StopName  string
	Delivery  Delivery
	Km        float64
	Latitude  float64
	Longitude float64
	// ActiveToday is the delivery badge evaluated at export time.
	ActiveToday bool
}
