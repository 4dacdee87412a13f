package handler

import (
	"net/http"
	"strconv"

	"github.com/pkordes/routecards/internal/domain"
	"github.com/pkordes/routecards/internal/geo"
	"github.com/pkordes/routecards/internal/service"
)

// PaginationMeta describes the page returned by ListRoutes.
type PaginationMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// RouteList is the body of GET /routes.
type RouteList struct {
	Data       []service.CardView `json:"data"`
	Pagination PaginationMeta     `json:"pagination"`
}

// GetShell handles GET /shell.
func (s *Server) GetShell(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.routes.Shell())
}

// PutShell handles PUT /shell. Turning edit mode off resets every card's
// editing sub-flows.
func (s *Server) PutShell(w http.ResponseWriter, r *http.Request) {
	var body service.Shell
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.routes.SetShell(body))
}

// ListRoutes handles GET /routes?page&limit.
// The total card count is also sent as X-Total-Count.
func (s *Server) ListRoutes(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	if err := queryParam(r, "page", &page); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := queryParam(r, "limit", &limit); err != nil {
		s.writeError(w, r, err)
		return
	}
	p := domain.NewPaginationParams(page, limit)
	views, total := s.routes.List(p)

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	writeJSON(w, http.StatusOK, RouteList{
		Data:       views,
		Pagination: PaginationMeta{Page: p.Page, Limit: p.Limit, Total: total},
	})
}

// CreateRoute handles POST /routes.
func (s *Server) CreateRoute(w http.ResponseWriter, r *http.Request) {
	var body service.RouteDraft
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := s.routes.Add(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.routes.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/routes/"+id.String())
	writeJSON(w, http.StatusCreated, c.View())
}

// GetRoute handles GET /routes/{routeId}.
func (s *Server) GetRoute(w http.ResponseWriter, r *http.Request) {
	s.event(w, r, func(*service.CardController) error { return nil })
}

// DeleteRoute handles DELETE /routes/{routeId}. The card's ticker stops
// before the response is written.
func (s *Server) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "routeId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.routes.Remove(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PanelRequest is the body of POST /routes/{routeId}/panel.
type PanelRequest struct {
	Panel string `json:"panel"`
}

// SetPanel handles POST /routes/{routeId}/panel.
func (s *Server) SetPanel(w http.ResponseWriter, r *http.Request) {
	var body PanelRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.event(w, r, func(c *service.CardController) error {
		return c.SetPanel(service.Panel(body.Panel))
	})
}

// GetChangelog handles GET /routes/{routeId}/changelog.
// Entries are most recent first.
func (s *Server) GetChangelog(w http.ResponseWriter, r *http.Request) {
	c, ok := s.card(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c.Changelog())
}

// GetMap handles GET /routes/{routeId}/map.
func (s *Server) GetMap(w http.ResponseWriter, r *http.Request) {
	c, ok := s.card(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, geo.RouteFeatures(c.Route()))
}
