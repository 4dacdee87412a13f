package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkordes/routecards/internal/domain"
)

// RouteSource is anything that can list the committed routes.
type RouteSource interface {
	Routes(ctx context.Context) ([]domain.Route, error)
}

// ExportService assembles a flat export of every route and its stops.
type ExportService struct {
	routes RouteSource
	now    func() time.Time
}

// NewExportService constructs an ExportService over src. A nil clock uses
// time.Now.
func NewExportService(src RouteSource, now func() time.Time) *ExportService {
	if now == nil {
		now = time.Now
	}
	return &ExportService{routes: src, now: now}
}

// Export returns one ExportRow per stop across all routes, in route then stop
// order. Routes with no stops contribute one row with empty stop fields.
// ActiveToday is evaluated at the time of the export.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	routes, err := s.routes.Routes(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: list routes: %w", err)
	}

	now := s.now()
	var rows []domain.ExportRow
	for _, r := range routes {
		base := domain.ExportRow{
			RouteID:    r.ID.String(),
			RouteTitle: r.Title,
			RouteCode:  r.Code,
			Shift:      r.Shift,
			Color:      r.Color.Hex(),
		}
		if len(r.Rows) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, st := range r.Rows {
			row := base
			row.StopNo = st.No
			row.StopCode = st.Code
			row.StopName = st.Name
			row.Delivery = st.Delivery
			row.Km = st.Km
			row.Latitude = st.Latitude
			row.Longitude = st.Longitude
			row.ActiveToday = st.Delivery.IsActive(now)
			rows = append(rows, row)
		}
	}
	if rows == nil {
		rows = []domain.ExportRow{}
	}
	return rows, nil
}
