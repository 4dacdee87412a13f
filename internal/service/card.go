// Package service contains the interaction logic for route cards.
// A CardController owns one route and its panel state machine; a
// RouteCollection owns the set of cards. Nothing here knows about HTTP.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pkordes/routecards/internal/domain"
	"github.com/pkordes/routecards/internal/qr"
)

// DefaultRefreshInterval is how often a card recomputes its relative time
// and delivery badges.
const DefaultRefreshInterval = 30 * time.Second

// Panel is the card's mutually exclusive top-level panel.
type Panel string

const (
	PanelDefault   Panel = "default"
	PanelChangelog Panel = "changelog"
	PanelEditForm  Panel = "editform"
)

// ParsePanel maps a wire value onto a Panel.
func ParsePanel(s string) (Panel, bool) {
	switch p := Panel(s); p {
	case PanelDefault, PanelChangelog, PanelEditForm:
		return p, true
	}
	return "", false
}

// CardOptions configures a CardController. Zero values pick defaults.
type CardOptions struct {
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Gateway runs QR decodes; defaults to a gozxing-backed gateway.
	Gateway *qr.Gateway
	// RefreshInterval defaults to DefaultRefreshInterval.
	RefreshInterval time.Duration
	// OnRefresh, when set, receives a fresh view on every refresh tick.
	// It is called without the card lock held.
	OnRefresh func(CardView)
}

func (o CardOptions) withDefaults() CardOptions {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Gateway == nil {
		o.Gateway = qr.NewGateway(qr.NewZXingDecoder(nil, 0), 15*time.Second, o.Logger)
	}
	if o.RefreshInterval <= 0 {
		o.RefreshInterval = DefaultRefreshInterval
	}
	return o
}

// CardController owns a single route's editable state and the interaction
// state machine around it. Every exported method is one discrete user event;
// the internal lock serializes them with refresh ticks and decode completions.
type CardController struct {
	mu sync.Mutex

	route domain.Route
	// highNo is the highest stop number ever assigned, so removed numbers
	// are never handed out again.
	highNo int

	editMode bool
	panel    Panel

	// Sub-flows; nil when closed.
	form     *formState
	cell     *CellEdit
	delivery *deliveryDialog
	adding   *StopDraft
	detail   *detailState

	// generation stamps row-detail sessions and decode submissions; a decode
	// result is applied only while its stamp is still current.
	generation uint64

	ticks       int
	refreshedAt time.Time

	opts   CardOptions
	log    *slog.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

// NewCardController takes ownership of route. The caller must not keep
// using route's slices afterwards.
func NewCardController(route domain.Route, opts CardOptions) *CardController {
	opts = opts.withDefaults()
	if route.Tags == nil {
		route.Tags = []string{}
	}
	if route.Rows == nil {
		route.Rows = []domain.Stop{}
	}
	for i := range route.Rows {
		if route.Rows[i].Descriptions == nil {
			route.Rows[i].Descriptions = []domain.Description{}
		}
		if route.Rows[i].AvatarImages == nil {
			route.Rows[i].AvatarImages = []string{}
		}
	}
	return &CardController{
		route:       route,
		highNo:      route.MaxStopNo(),
		panel:       PanelDefault,
		opts:        opts,
		log:         opts.Logger.With("route_id", route.ID.String()),
		refreshedAt: opts.Now(),
	}
}

// ---- lifecycle -------------------------------------------------------------

// Start launches the refresh ticker. It stops when ctx is done or Close is
// called. Calling Start on a running card is a no-op.
func (c *CardController) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	go c.run(ctx, c.done, c.opts.RefreshInterval)
}

// Close stops the refresh ticker and waits for it to exit. Safe to call more
// than once, and on a card that was never started.
func (c *CardController) Close() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (c *CardController) run(ctx context.Context, done chan struct{}, every time.Duration) {
	defer close(done)
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.Refresh()
		}
	}
}

// Refresh recomputes the time-dependent parts of the card, as one polling
// tick does, and hands the new view to OnRefresh.
func (c *CardController) Refresh() CardView {
	c.mu.Lock()
	c.ticks++
	c.refreshedAt = c.opts.Now()
	v := c.viewLocked()
	c.mu.Unlock()

	if c.opts.OnRefresh != nil {
		c.opts.OnRefresh(v)
	}
	return v
}

// ---- reads -----------------------------------------------------------------

// ID returns the id of the owned route.
func (c *CardController) ID() string {
	return c.route.ID.String()
}

// Route returns a deep copy of the committed route.
func (c *CardController) Route() domain.Route {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.route.Clone()
}

// Changelog returns the summarized changelog, most recent first.
func (c *CardController) Changelog() []ChangelogLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := c.route.Changelog.Entries()
	lines := make([]ChangelogLine, len(entries))
	for i, e := range entries {
		lines[i] = ChangelogLine{
			Date:    e.Date,
			Day:     domain.ShortDate(e.Date),
			Kind:    e.Kind,
			Names:   e.Names,
			Summary: e.Summary(),
		}
	}
	return lines
}

// ---- global edit mode ------------------------------------------------------

// SetEditMode mirrors the shell's edit-mode flag. Turning it off forces the
// card out of the edit form, discarding its drafts, and closes every editing
// sub-flow. An open row detail stays open as a viewer with its drafts reset.
func (c *CardController) SetEditMode(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editMode = on
	if on {
		return
	}
	if c.panel == PanelEditForm {
		c.form = nil
		c.panel = PanelDefault
	}
	c.cell = nil
	c.delivery = nil
	c.adding = nil
	if c.detail != nil {
		c.generation++
		if i := c.route.StopIndex(c.detail.stopNo); i >= 0 {
			c.detail = c.newDetail(c.route.Rows[i])
		} else {
			c.detail = nil
		}
	}
}

// ---- panel state machine ---------------------------------------------------

// SetPanel moves between Default, Changelog and EditForm.
// Changelog and EditForm are only reachable from Default; EditForm also
// needs edit mode. Moving to Default from EditForm cancels the form.
// Leaving Default closes any open sub-flow.
func (c *CardController) SetPanel(p Panel) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p == c.panel {
		return nil
	}
	switch p {
	case PanelDefault:
		c.form = nil
		c.panel = PanelDefault
		return nil
	case PanelChangelog:
		if c.panel != PanelDefault {
			return fmt.Errorf("service.CardController.SetPanel: %w: changelog is only reachable from the default panel", domain.ErrInvalidState)
		}
		c.closeSubflows()
		c.panel = PanelChangelog
		return nil
	case PanelEditForm:
		if !c.editMode {
			return fmt.Errorf("service.CardController.SetPanel: %w", domain.ErrEditModeOff)
		}
		if c.panel != PanelDefault {
			return fmt.Errorf("service.CardController.SetPanel: %w: edit form is only reachable from the default panel", domain.ErrInvalidState)
		}
		c.closeSubflows()
		c.form = newFormState(c.route)
		c.panel = PanelEditForm
		return nil
	}
	return fmt.Errorf("service.CardController.SetPanel: %w: unknown panel %q", domain.ErrValidation, p)
}

// Panel returns the current top-level panel.
func (c *CardController) Panel() Panel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.panel
}

func (c *CardController) closeSubflows() {
	c.cell = nil
	c.delivery = nil
	c.adding = nil
	if c.detail != nil {
		c.detail = nil
		c.generation++
	}
}

// ---- guards ----------------------------------------------------------------

// requireEditing checks the preconditions shared by every in-card edit:
// edit mode on and the Default panel showing.
func (c *CardController) requireEditing(op string) error {
	if !c.editMode {
		return fmt.Errorf("service.CardController.%s: %w", op, domain.ErrEditModeOff)
	}
	if c.panel != PanelDefault {
		return fmt.Errorf("service.CardController.%s: %w: panel %s is open", op, domain.ErrInvalidState, c.panel)
	}
	return nil
}

// touch stamps a committed mutation.
func (c *CardController) touch(what string) {
	c.route.LastModified = c.opts.Now()
	c.log.Debug("card mutated", "change", what)
}
