package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/routecards/internal/domain"
	"github.com/pkordes/routecards/internal/handler"
	"github.com/pkordes/routecards/internal/qr"
	"github.com/pkordes/routecards/internal/repo"
	"github.com/pkordes/routecards/internal/service"
)

// ---- mock Decoder ----------------------------------------------------------

type mockDecoder struct {
	decode func(ctx context.Context, src qr.Source) (string, error)
}

func (m *mockDecoder) Decode(ctx context.Context, src qr.Source) (string, error) {
	return m.decode(ctx, src)
}

// compile-time check: mockDecoder must satisfy qr.Decoder.
var _ qr.Decoder = (*mockDecoder)(nil)

// compile-time check: the real collection satisfies handler.RouteCollection.
var _ handler.RouteCollection = (*service.RouteCollection)(nil)

// ---- counting BlobRepo -----------------------------------------------------

// countingBlobs records how many blobs were ever stored.
type countingBlobs struct {
	repo.BlobRepo
	puts atomic.Int32
}

func (c *countingBlobs) Put(data []byte, contentType string) (repo.Blob, error) {
	c.puts.Add(1)
	return c.BlobRepo.Put(data, contentType)
}

// compile-time check: countingBlobs must satisfy repo.BlobRepo.
var _ repo.BlobRepo = (*countingBlobs)(nil)

// ---- helpers ---------------------------------------------------------------

type apiFixture struct {
	h     http.Handler
	rc    *service.RouteCollection
	blobs *countingBlobs
	ids   []string
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newAPI wires a Server over a seeded collection in edit mode.
func newAPI(t *testing.T, dec qr.Decoder) apiFixture {
	t.Helper()
	if dec == nil {
		dec = &mockDecoder{decode: func(context.Context, qr.Source) (string, error) { return "", domain.ErrDecode }}
	}
	rc := service.NewRouteCollection(service.CardOptions{
		Logger:  discardLogger(),
		Gateway: qr.NewGateway(dec, time.Second, discardLogger()),
	})
	t.Cleanup(rc.Close)
	rc.SetShell(service.Shell{EditMode: true})
	ids := service.Seed(rc)

	blobs := &countingBlobs{BlobRepo: repo.NewBlobRepo()}
	export := service.NewExportService(rc, time.Now)
	srv := handler.NewServer(rc, export, blobs, discardLogger())
	return apiFixture{h: srv.Routes(), rc: rc, blobs: blobs, ids: ids}
}

// do sends body as JSON unless it is already a *bytes.Reader.
func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case *bytes.Reader:
		r = b
		contentType = "image/png"
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
		contentType = "application/json"
	}
	req := httptest.NewRequest(method, path, r)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeCard(t *testing.T, rec *httptest.ResponseRecorder) service.CardView {
	t.Helper()
	var v service.CardView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func (f apiFixture) route(i int) string {
	return "/routes/" + f.ids[i]
}

// ---- GET /healthz ----------------------------------------------------------

func TestGetHealth_returns200WithOKStatus(t *testing.T) {
	api := newAPI(t, nil)

	rec := do(t, api.h, http.MethodGet, "/healthz", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body handler.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
}

// ---- /shell ----------------------------------------------------------------

func TestPutShell_EditModeOffBlocksEditing(t *testing.T) {
	api := newAPI(t, nil)

	rec := do(t, api.h, http.MethodPut, "/shell", service.Shell{DarkMode: true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, api.h, http.MethodPost, api.route(0)+"/draft", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", decodeError(t, rec).Code)
}

func TestPutShell_MalformedJSON(t *testing.T) {
	api := newAPI(t, nil)
	req := httptest.NewRequest(http.MethodPut, "/shell", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()

	api.h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", decodeError(t, rec).Code)
}

// ---- /routes ---------------------------------------------------------------

func TestListRoutes_PagesAndCounts(t *testing.T) {
	api := newAPI(t, nil)

	rec := do(t, api.h, http.MethodGet, "/routes?page=2&limit=2", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("X-Total-Count"))
	var body handler.RouteList
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "City Card", body.Data[0].Title)
	assert.Equal(t, handler.PaginationMeta{Page: 2, Limit: 2, Total: 3}, body.Pagination)
}

func TestListRoutes_BadQuery(t *testing.T) {
	api := newAPI(t, nil)

	rec := do(t, api.h, http.MethodGet, "/routes?page=abc", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRoute(t *testing.T) {
	api := newAPI(t, nil)

	rec := do(t, api.h, http.MethodPost, "/routes", service.RouteDraft{Title: "Harbour", City: "Lisbon", Country: "Portugal"})

	require.Equal(t, http.StatusCreated, rec.Code)
	v := decodeCard(t, rec)
	assert.Equal(t, "Lisbon, Portugal", v.Subtitle)
	assert.Equal(t, "/routes/"+v.ID, rec.Header().Get("Location"))
	assert.True(t, v.EditMode)
	assert.Empty(t, v.Rows)
}

func TestCreateRoute_ValidationFields(t *testing.T) {
	api := newAPI(t, nil)

	rec := do(t, api.h, http.MethodPost, "/routes", service.RouteDraft{Title: "Harbour"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "validation_error", e.Code)
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "city", e.Fields[0].Field)
}

func TestGetRoute_NotFoundAndBadID(t *testing.T) {
	api := newAPI(t, nil)

	rec := do(t, api.h, http.MethodGet, "/routes/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, api.h, http.MethodGet, "/routes/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteRoute(t *testing.T) {
	api := newAPI(t, nil)

	rec := do(t, api.h, http.MethodDelete, api.route(0), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, api.h, http.MethodGet, api.route(0), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 2, api.rc.Len())
}

func TestGetChangelog(t *testing.T) {
	api := newAPI(t, nil)

	rec := do(t, api.h, http.MethodGet, api.route(0)+"/changelog", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var lines []service.ChangelogLine
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&lines))
	require.Len(t, lines, 1)
	assert.Len(t, lines[0].Names, 5)
}

func TestGetMap(t *testing.T) {
	api := newAPI(t, nil)

	rec := do(t, api.h, http.MethodGet, api.route(0)+"/map", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Center   [2]float64 `json:"center"`
		Features struct {
			Type     string           `json:"type"`
			Features []map[string]any `json:"features"`
		} `json:"features"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "FeatureCollection", body.Features.Type)
	assert.Len(t, body.Features.Features, 6)
}
