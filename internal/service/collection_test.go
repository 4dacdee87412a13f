package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/routecards/internal/domain"
	"github.com/pkordes/routecards/internal/qr"
	"github.com/pkordes/routecards/internal/service"
)

func newCollection(t *testing.T) (*service.RouteCollection, *testClock) {
	t.Helper()
	clock := &testClock{now: created}
	dec := &mockDecoder{decode: func(context.Context, qr.Source) (string, error) { return "", domain.ErrDecode }}
	rc := service.NewRouteCollection(service.CardOptions{
		Now:     clock.Now,
		Logger:  discardLogger(),
		Gateway: qr.NewGateway(dec, time.Second, discardLogger()),
	})
	t.Cleanup(rc.Close)
	return rc, clock
}

// ---- Add -------------------------------------------------------------------

func TestRouteCollection_Add(t *testing.T) {
	rc, clock := newCollection(t)

	id, err := rc.Add(service.RouteDraft{
		Title:   " Morning Run ",
		City:    "Lisbon",
		Country: "Portugal",
		Color:   "#22c55e",
		Tags:    []string{"a", " ", "a"},
	})

	require.NoError(t, err)
	card, err := rc.Get(id)
	require.NoError(t, err)
	r := card.Route()
	assert.Equal(t, "Morning Run", r.Title)
	assert.Equal(t, "Lisbon, Portugal", r.Subtitle())
	assert.Equal(t, "Portugal", r.Code)
	assert.Equal(t, domain.ShiftAM, r.Shift)
	assert.Equal(t, "#22c55e", r.Color.Hex())
	assert.Equal(t, "#22c55eb3", r.Color.RouteLine())
	assert.Equal(t, []string{"a", "a"}, r.Tags)
	assert.Empty(t, r.Rows)
	assert.Equal(t, clock.Now(), r.LastModified)

	require.Equal(t, 1, r.Changelog.Len())
	entry := r.Changelog.Entries()[0]
	assert.Equal(t, domain.EntryRouteCreated, entry.Kind)
	assert.Empty(t, entry.Names)
}

func TestRouteCollection_AddDefaultsColor(t *testing.T) {
	rc, _ := newCollection(t)

	id, err := rc.Add(service.RouteDraft{Title: "T", City: "C"})

	require.NoError(t, err)
	card, _ := rc.Get(id)
	assert.Equal(t, domain.DefaultColor, card.Route().Color)
}

func TestRouteCollection_AddValidation(t *testing.T) {
	rc, _ := newCollection(t)

	_, err := rc.Add(service.RouteDraft{Title: " ", Country: "Nowhere", Color: "zzz", Shift: "noon"})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		fields[i] = f.Field
	}
	assert.ElementsMatch(t, []string{"title", "city", "color", "shift"}, fields)
	assert.Zero(t, rc.Len())
}

func TestRouteCollection_NewCardFollowsShell(t *testing.T) {
	rc, _ := newCollection(t)
	rc.SetShell(service.Shell{EditMode: true})

	id, err := rc.Add(service.RouteDraft{Title: "T", City: "C"})
	require.NoError(t, err)

	card, _ := rc.Get(id)
	assert.True(t, card.View().EditMode)
}

// ---- Get / List / Remove ---------------------------------------------------

func TestRouteCollection_GetUnknown(t *testing.T) {
	rc, _ := newCollection(t)

	_, err := rc.Get(uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRouteCollection_ListPages(t *testing.T) {
	rc, _ := newCollection(t)
	for _, title := range []string{"A", "B", "C"} {
		_, err := rc.Add(service.RouteDraft{Title: title, City: "X"})
		require.NoError(t, err)
	}
	page, limit := 2, 2

	views, total := rc.List(domain.NewPaginationParams(&page, &limit))

	assert.Equal(t, 3, total)
	require.Len(t, views, 1)
	assert.Equal(t, "C", views[0].Title)
}

func TestRouteCollection_Remove(t *testing.T) {
	rc, _ := newCollection(t)
	id, err := rc.Add(service.RouteDraft{Title: "T", City: "C"})
	require.NoError(t, err)

	require.NoError(t, rc.Remove(id))

	assert.Zero(t, rc.Len())
	assert.ErrorIs(t, rc.Remove(id), domain.ErrNotFound)
}

// ---- Shell -----------------------------------------------------------------

func TestRouteCollection_EditModeOffResetsCards(t *testing.T) {
	rc, _ := newCollection(t)
	rc.SetShell(service.Shell{EditMode: true, DarkMode: true})
	id, err := rc.Add(service.RouteDraft{Title: "T", City: "C"})
	require.NoError(t, err)
	card, _ := rc.Get(id)
	require.NoError(t, card.SetPanel(service.PanelEditForm))

	rc.SetShell(service.Shell{EditMode: false, DarkMode: true})

	assert.Equal(t, service.PanelDefault, card.Panel())
	assert.Equal(t, service.Shell{DarkMode: true}, rc.Shell())
}

// ---- Routes / Seed ---------------------------------------------------------

func TestRouteCollection_RoutesAreCopies(t *testing.T) {
	rc, _ := newCollection(t)
	service.Seed(rc)

	routes, err := rc.Routes(context.Background())
	require.NoError(t, err)
	routes[0].Rows[0].Name = "mutated"

	again, _ := rc.Routes(context.Background())
	assert.Equal(t, "Times Square", again[0].Rows[0].Name)
}

func TestSeed(t *testing.T) {
	rc, _ := newCollection(t)

	ids := service.Seed(rc)

	require.Len(t, ids, 3)
	routes, err := rc.Routes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "New York, USA", routes[0].Subtitle())
	assert.Equal(t, "Paris, France", routes[1].Subtitle())
	assert.Equal(t, "Tokyo, Japan", routes[2].Subtitle())
	for _, r := range routes {
		assert.Len(t, r.Rows, 5)
		require.Equal(t, 1, r.Changelog.Len())
		assert.Len(t, r.Changelog.Entries()[0].Names, 5)
	}
	assert.Equal(t, "#f97316", routes[1].Color.Hex())
}

func TestSeed_AddStopContinuesNumbering(t *testing.T) {
	rc, _ := newCollection(t)
	rc.SetShell(service.Shell{EditMode: true})
	ids := service.Seed(rc)
	card, err := rc.Get(uuid.MustParse(ids[0]))
	require.NoError(t, err)

	_, err = card.BeginAddStop()
	require.NoError(t, err)
	require.NoError(t, card.UpdateAddStop(service.StopDraft{Name: "Brooklyn Bridge"}))
	s, err := card.ConfirmAddStop()

	require.NoError(t, err)
	assert.Equal(t, 6, s.No)
}

func TestDemoRoutesAreFresh(t *testing.T) {
	a := service.DemoRoutes()
	a[0].Rows[0].Name = "mutated"

	b := service.DemoRoutes()
	assert.Equal(t, "Times Square", b[0].Rows[0].Name)
}

// ---- Lifecycle -------------------------------------------------------------

func TestRouteCollection_StartRefreshesCards(t *testing.T) {
	rc := service.NewRouteCollection(service.CardOptions{
		Logger:          discardLogger(),
		RefreshInterval: 5 * time.Millisecond,
	})
	id, err := rc.Add(service.RouteDraft{Title: "T", City: "C"})
	require.NoError(t, err)
	card, _ := rc.Get(id)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rc.Start(ctx)

	assert.Eventually(t, func() bool { return card.View().Ticks >= 1 }, time.Second, time.Millisecond)
	rc.Close()
	stopped := card.View().Ticks
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, card.View().Ticks)
}
