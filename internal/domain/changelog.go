package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EntryKind tells the creation entry apart from later additions.
type EntryKind string

const (
	EntryRouteCreated EntryKind = "route_created"
	EntryStopsAdded   EntryKind = "stops_added"
)

// ChangelogEntry records the stops added to a route at one point in time.
// Entries are values; the ledger hands out copies.
type ChangelogEntry struct {
	Date  time.Time `json:"date"`
	Kind  EntryKind `json:"kind"`
	Names []string  `json:"names"`
}

// Summary renders the entry the way the changelog panel shows it, e.g.
// "Route created with 2 locations: A and B" or "Added 1 location: C".
// Zero names reads "0 locations".
func (e ChangelogEntry) Summary() string {
	count := fmt.Sprintf("%d %s", len(e.Names), Pluralize(len(e.Names), "location", "locations"))
	var b strings.Builder
	if e.Kind == EntryRouteCreated {
		b.WriteString("Route created with ")
	} else {
		b.WriteString("Added ")
	}
	b.WriteString(count)
	if len(e.Names) > 0 {
		b.WriteString(": ")
		b.WriteString(JoinNames(e.Names))
	}
	return b.String()
}

// Changelog is the append-only creation journal of a route. It records stop
// additions only; edits and removals are deliberately not journaled.
// The zero value is an empty ledger.
type Changelog struct {
	entries []ChangelogEntry
}

// NewChangelog starts a ledger with the route-creation entry.
func NewChangelog(names []string, when time.Time) Changelog {
	var c Changelog
	c.Append(names, when)
	return c
}

// Append records names added at when. The first entry ever appended is the
// route-creation entry. The names slice is copied.
func (c *Changelog) Append(names []string, when time.Time) ChangelogEntry {
	kind := EntryStopsAdded
	if len(c.entries) == 0 {
		kind = EntryRouteCreated
	}
	e := ChangelogEntry{Date: when, Kind: kind, Names: append([]string{}, names...)}
	c.entries = append(c.entries, e)
	return e
}

// Len returns the number of entries.
func (c Changelog) Len() int { return len(c.entries) }

// Entries returns the entries most-recent-first, as displayed.
func (c Changelog) Entries() []ChangelogEntry {
	out := make([]ChangelogEntry, len(c.entries))
	for i, e := range c.entries {
		out[len(c.entries)-1-i] = copyEntry(e)
	}
	return out
}

// Chronological returns the entries oldest-first.
func (c Changelog) Chronological() []ChangelogEntry {
	out := make([]ChangelogEntry, len(c.entries))
	for i, e := range c.entries {
		out[i] = copyEntry(e)
	}
	return out
}

func (c Changelog) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Chronological())
}

func (c Changelog) clone() Changelog {
	return Changelog{entries: c.Chronological()}
}

func copyEntry(e ChangelogEntry) ChangelogEntry {
	e.Names = append([]string{}, e.Names...)
	return e
}

// Pluralize picks singular for exactly one, plural otherwise.
func Pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

// JoinNames joins names as "A", "A and B", "A, B and C".
func JoinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
