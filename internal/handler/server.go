// Package handler implements the HTTP surface of the route cards API.
// Every endpoint is an event fed into a card controller; responses carry the
// card view as it looks after the event. Handlers are methods on Server and
// are split into files by card area (form.go, cell.go, detail.go, etc.).
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/routecards/internal/domain"
	"github.com/pkordes/routecards/internal/repo"
	"github.com/pkordes/routecards/internal/service"
)

// RouteCollection is the part of the card collection the handlers drive.
// Defining it here keeps handler tests free to swap in a smaller fake.
type RouteCollection interface {
	Add(d service.RouteDraft) (uuid.UUID, error)
	Get(id uuid.UUID) (*service.CardController, error)
	List(p domain.PaginationParams) ([]service.CardView, int)
	Remove(id uuid.UUID) error
	Shell() service.Shell
	SetShell(s service.Shell) service.Shell
}

// ExportServicer produces the flat export table.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	routes RouteCollection
	export ExportServicer
	blobs  repo.BlobRepo
	log    *slog.Logger
}

// NewServer constructs the Server. A nil logger uses slog.Default().
func NewServer(routes RouteCollection, export ExportServicer, blobs repo.BlobRepo, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{routes: routes, export: export, blobs: blobs, log: log}
}

// Routes returns the chi router with every endpoint registered.
// Cross-cutting middleware is applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/shell", s.GetShell)
	r.Put("/shell", s.PutShell)
	r.Get("/export", s.GetExport)
	r.Get("/blobs/{blobId}", s.GetBlob)

	r.Route("/routes", func(r chi.Router) {
		r.Get("/", s.ListRoutes)
		r.Post("/", s.CreateRoute)

		r.Route("/{routeId}", func(r chi.Router) {
			r.Get("/", s.GetRoute)
			r.Delete("/", s.DeleteRoute)
			r.Post("/panel", s.SetPanel)
			r.Get("/changelog", s.GetChangelog)
			r.Get("/map", s.GetMap)

			r.Get("/form", s.GetForm)
			r.Patch("/form", s.PatchForm)
			r.Post("/form/tags", s.AddTag)
			r.Put("/form/tags/{index}", s.RenameTag)
			r.Delete("/form/tags/{index}", s.RemoveTag)
			r.Post("/form/save", s.SaveForm)
			r.Post("/form/cancel", s.CancelForm)

			r.Post("/cell", s.BeginCellEdit)
			r.Put("/cell", s.SetCellValue)
			r.Post("/cell/commit", s.CommitCell)
			r.Delete("/cell", s.CancelCell)
			r.Put("/delivery", s.ChooseDelivery)
			r.Delete("/delivery", s.CloseDeliveryDialog)

			r.Post("/draft", s.BeginAddStop)
			r.Put("/draft", s.UpdateAddStop)
			r.Post("/draft/confirm", s.ConfirmAddStop)
			r.Delete("/draft", s.DiscardAddStop)
			r.Post("/stops/remove", s.RemoveStops)

			r.Post("/stops/{no}/detail", s.OpenDetail)
			r.Get("/detail", s.GetDetail)
			r.Delete("/detail", s.CancelDetail)
			r.Post("/detail/save", s.SaveDetail)
			r.Put("/detail/descriptions", s.PutDescriptions)
			r.Put("/detail/qr", s.PutQR)
			r.Post("/detail/qr/decode", s.DecodeQR)
			r.Post("/detail/avatars", s.AddAvatar)
			r.Put("/detail/avatars/selected", s.SelectAvatar)
			r.Delete("/detail/avatars/{index}", s.RemoveAvatar)
			r.Post("/detail/open", s.RequestOpen)
			r.Post("/detail/open/confirm", s.ConfirmOpen)
			r.Delete("/detail/open", s.DismissOpen)
		})
	})
	return r
}

// card resolves the {routeId} path parameter to its controller, writing the
// error response itself when it cannot.
func (s *Server) card(w http.ResponseWriter, r *http.Request) (*service.CardController, bool) {
	id, err := pathUUID(r, "routeId")
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	c, err := s.routes.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return c, true
}

// event runs fn against the addressed card and answers with the card view.
func (s *Server) event(w http.ResponseWriter, r *http.Request, fn func(c *service.CardController) error) {
	c, ok := s.card(w, r)
	if !ok {
		return
	}
	if err := fn(c); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c.View())
}
