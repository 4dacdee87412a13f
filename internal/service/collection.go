package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/routecards/internal/domain"
)

// Shell holds the app-wide flags every card reacts to.
type Shell struct {
	DarkMode bool `json:"darkMode"`
	EditMode bool `json:"editMode"`
}

// RouteDraft is the new-route form.
type RouteDraft struct {
	Title       string   `json:"title"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Color       string   `json:"color"`
	Shift       string   `json:"shift"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// RouteCollection is the ordered set of cards shown by the shell.
// It owns every CardController it hands out.
type RouteCollection struct {
	mu    sync.RWMutex
	order []uuid.UUID
	cards map[uuid.UUID]*CardController
	shell Shell

	opts CardOptions
	log  *slog.Logger
	// ctx is set once Start runs; cards added later start their tickers
	// under it.
	ctx context.Context
}

// NewRouteCollection returns an empty collection. opts is applied to every
// card it creates.
func NewRouteCollection(opts CardOptions) *RouteCollection {
	opts = opts.withDefaults()
	return &RouteCollection{
		cards: make(map[uuid.UUID]*CardController),
		opts:  opts,
		log:   opts.Logger,
	}
}

// Add validates d and creates a route with no stops and a changelog holding
// only the creation entry.
func (rc *RouteCollection) Add(d RouteDraft) (uuid.UUID, error) {
	var verr domain.ValidationError

	title := strings.TrimSpace(d.Title)
	if title == "" {
		verr.Add("title", "title is required")
	}
	city := strings.TrimSpace(d.City)
	if city == "" {
		verr.Add("city", "city is required")
	}

	color := domain.DefaultColor
	if strings.TrimSpace(d.Color) != "" {
		c, err := domain.ParseColor(d.Color)
		if err != nil {
			verr.Add("color", fmt.Sprintf("invalid color %q", d.Color))
		}
		color = c
	}

	shift := domain.ShiftAM
	if strings.TrimSpace(d.Shift) != "" {
		s, ok := domain.ParseShift(d.Shift)
		if !ok {
			verr.Add("shift", fmt.Sprintf("unknown shift %q", d.Shift))
		}
		shift = s
	}

	if err := verr.OrNil(); err != nil {
		return uuid.Nil, fmt.Errorf("service.RouteCollection.Add: %w", err)
	}

	now := rc.opts.Now()
	country := strings.TrimSpace(d.Country)
	r := domain.Route{
		ID:           uuid.New(),
		Title:        title,
		City:         city,
		Country:      country,
		Code:         country,
		Shift:        shift,
		Description:  strings.TrimSpace(d.Description),
		Tags:         cleanTags(d.Tags),
		Color:        color,
		Rows:         []domain.Stop{},
		Changelog:    domain.NewChangelog(nil, now),
		LastModified: now,
	}
	rc.Import(r)
	rc.log.Info("route created", "route_id", r.ID.String(), "title", r.Title)
	return r.ID, nil
}

// Import adds a fully formed route, such as demo data, as a new card.
// A nil id is replaced with a fresh one. The collection takes ownership of r.
func (rc *RouteCollection) Import(r domain.Route) uuid.UUID {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Changelog.Len() == 0 {
		names := make([]string, len(r.Rows))
		for i, s := range r.Rows {
			names[i] = s.Name
		}
		r.Changelog = domain.NewChangelog(names, r.LastModified)
	}

	card := NewCardController(r, rc.opts)

	rc.mu.Lock()
	card.SetEditMode(rc.shell.EditMode)
	rc.order = append(rc.order, r.ID)
	rc.cards[r.ID] = card
	ctx := rc.ctx
	rc.mu.Unlock()

	if ctx != nil {
		card.Start(ctx)
	}
	return r.ID
}

// Get returns the card for id.
func (rc *RouteCollection) Get(id uuid.UUID) (*CardController, error) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	card, ok := rc.cards[id]
	if !ok {
		return nil, fmt.Errorf("service.RouteCollection.Get: %w: route %s", domain.ErrNotFound, id)
	}
	return card, nil
}

// List returns one page of card views in creation order, plus the total
// number of cards.
func (rc *RouteCollection) List(p domain.PaginationParams) ([]CardView, int) {
	cards := rc.snapshot()
	start, end := p.Window(len(cards))
	views := make([]CardView, 0, end-start)
	for _, card := range cards[start:end] {
		views = append(views, card.View())
	}
	return views, len(cards)
}

// Remove closes the card for id and drops it from the collection.
func (rc *RouteCollection) Remove(id uuid.UUID) error {
	rc.mu.Lock()
	card, ok := rc.cards[id]
	if !ok {
		rc.mu.Unlock()
		return fmt.Errorf("service.RouteCollection.Remove: %w: route %s", domain.ErrNotFound, id)
	}
	delete(rc.cards, id)
	for i, v := range rc.order {
		if v == id {
			rc.order = append(rc.order[:i], rc.order[i+1:]...)
			break
		}
	}
	rc.mu.Unlock()

	card.Close()
	rc.log.Info("route removed", "route_id", id.String())
	return nil
}

// Len returns the number of cards.
func (rc *RouteCollection) Len() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return len(rc.order)
}

// Shell returns the current shell flags.
func (rc *RouteCollection) Shell() Shell {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.shell
}

// SetShell replaces the shell flags and pushes edit mode to every card.
func (rc *RouteCollection) SetShell(s Shell) Shell {
	rc.mu.Lock()
	rc.shell = s
	rc.mu.Unlock()

	for _, card := range rc.snapshot() {
		card.SetEditMode(s.EditMode)
	}
	rc.log.Info("shell updated", "edit_mode", s.EditMode, "dark_mode", s.DarkMode)
	return s
}

// Routes returns deep copies of every committed route in creation order.
func (rc *RouteCollection) Routes(_ context.Context) ([]domain.Route, error) {
	cards := rc.snapshot()
	routes := make([]domain.Route, len(cards))
	for i, card := range cards {
		routes[i] = card.Route()
	}
	return routes, nil
}

// Start launches every card's refresh ticker, and those of cards added later.
func (rc *RouteCollection) Start(ctx context.Context) {
	rc.mu.Lock()
	rc.ctx = ctx
	rc.mu.Unlock()
	for _, card := range rc.snapshot() {
		card.Start(ctx)
	}
}

// Close stops every card's ticker and waits for in-flight decodes.
func (rc *RouteCollection) Close() {
	for _, card := range rc.snapshot() {
		card.Close()
	}
	rc.opts.Gateway.Wait()
}

func (rc *RouteCollection) snapshot() []*CardController {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	out := make([]*CardController, len(rc.order))
	for i, id := range rc.order {
		out[i] = rc.cards[id]
	}
	return out
}
