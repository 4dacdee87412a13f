// Package handler: export.go implements GET /export.
// Returns every stop of every card as a flat table.
// Supports content negotiation via ?format=csv (CSV) or default (JSON).
package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/pkordes/routecards/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"route_id", "route_title", "route_code", "shift", "color",
	"stop_no", "stop_code", "stop_name", "delivery", "km",
	"latitude", "longitude", "active_today",
}

// ExportRow is one row of the JSON export. Stop fields are omitted for
// routes without stops.
type ExportRow struct {
	RouteID     string   `json:"routeId"`
	RouteTitle  string   `json:"routeTitle"`
	RouteCode   string   `json:"routeCode"`
	Shift       string   `json:"shift"`
	Color       string   `json:"color"`
	StopNo      *int     `json:"stopNo,omitempty"`
	StopCode    *string  `json:"stopCode,omitempty"`
	StopName    *string  `json:"stopName,omitempty"`
	Delivery    *string  `json:"delivery,omitempty"`
	Km          *float64 `json:"km,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	ActiveToday *bool    `json:"activeToday,omitempty"`
}

// GetExport implements GET /export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	var format *string
	if err := queryParam(r, "format", &format); err != nil {
		s.writeError(w, r, err)
		return
	}
	if format != nil && *format != "csv" && *format != "json" {
		s.writeError(w, r, badRequest("format must be csv or json"))
		return
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if format != nil && *format == "csv" {
		writeCSV(w, rows)
		return
	}
	writeJSON(w, http.StatusOK, buildJSONRows(rows))
}

// buildJSONRows converts domain rows to the JSON response shape.
func buildJSONRows(rows []domain.ExportRow) []ExportRow {
	out := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, domainRowToJSONRow(r))
	}
	return out
}

// writeCSV encodes domain rows as CSV with a header line.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(domainRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="routes-`+time.Now().UTC().Format("20060102")+`.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write(buf.Bytes())
}

// domainRowToJSONRow maps a domain.ExportRow to the JSON row.
// Stop fields stay nil for a route's placeholder row.
func domainRowToJSONRow(r domain.ExportRow) ExportRow {
	row := ExportRow{
		RouteID:    r.RouteID,
		RouteTitle: r.RouteTitle,
		RouteCode:  r.RouteCode,
		Shift:      string(r.Shift),
		Color:      r.Color,
	}
	if r.StopNo == 0 {
		return row
	}
	delivery := string(r.Delivery)
	row.StopNo = &r.StopNo
	row.StopCode = &r.StopCode
	row.StopName = &r.StopName
	row.Delivery = &delivery
	row.Km = &r.Km
	row.Latitude = &r.Latitude
	row.Longitude = &r.Longitude
	row.ActiveToday = &r.ActiveToday
	return row
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// A route's placeholder row leaves every stop column empty.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	rec := []string{r.RouteID, r.RouteTitle, r.RouteCode, string(r.Shift), r.Color}
	if r.StopNo == 0 {
		return append(rec, "", "", "", "", "", "", "", "")
	}
	return append(rec,
		strconv.Itoa(r.StopNo),
		r.StopCode,
		r.StopName,
		string(r.Delivery),
		strconv.FormatFloat(r.Km, 'f', -1, 64),
		strconv.FormatFloat(r.Latitude, 'f', -1, 64),
		strconv.FormatFloat(r.Longitude, 'f', -1, 64),
		strconv.FormatBool(r.ActiveToday),
	)
}
