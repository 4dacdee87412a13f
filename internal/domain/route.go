// Package domain contains the core data types for the route card UI: routes,
// stops, delivery rules, colors and the creation changelog.
// Everything here is pure; no package in internal/ is imported.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Shift is the half of the day a route runs in.
type Shift string

const (
	ShiftAM Shift = "AM"
	ShiftPM Shift = "PM"
)

// ParseShift accepts "am"/"pm" in any case.
func ParseShift(s string) (Shift, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AM":
		return ShiftAM, true
	case "PM":
		return ShiftPM, true
	}
	return "", false
}

// Route is a named, colored collection of ordered stops.
// A Route is owned by exactly one card controller, which is its only writer.
type Route struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	City        string    `json:"city"`
	Country     string    `json:"country,omitempty"`
	Code        string    `json:"code"`
	Shift       Shift     `json:"shift"`
	Description string    `json:"description"`
	// Tags keep insertion order and may contain duplicates.
	Tags         []string  `json:"tags"`
	Color        Color     `json:"color"`
	Rows         []Stop    `json:"rows"`
	Changelog    Changelog `json:"changelog"`
	LastModified time.Time `json:"lastModified"`
}

// Subtitle is the "City, Country" line under the card title.
func (r Route) Subtitle() string {
	if r.Country == "" {
		return r.City
	}
	return r.City + ", " + r.Country
}

// MaxStopNo returns the highest stop number in Rows, or 0 when there are none.
func (r Route) MaxStopNo() int {
	max := 0
	for _, s := range r.Rows {
		if s.No > max {
			max = s.No
		}
	}
	return max
}

// StopIndex returns the position of the stop numbered no, or -1.
func (r Route) StopIndex(no int) int {
	for i, s := range r.Rows {
		if s.No == no {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy that shares no slices with r.
func (r Route) Clone() Route {
	out := r
	out.Tags = append([]string{}, r.Tags...)
	out.Rows = make([]Stop, len(r.Rows))
	for i, s := range r.Rows {
		out.Rows[i] = s.Clone()
	}
	out.Changelog = r.Changelog.clone()
	return out
}
