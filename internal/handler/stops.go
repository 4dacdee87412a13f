package handler

import (
	"net/http"

	"github.com/pkordes/routecards/internal/service"
)

// RemoveStopsRequest lists the stop numbers to delete.
type RemoveStopsRequest struct {
	Nos []int `json:"nos"`
}

// BeginAddStop handles POST /routes/{routeId}/draft.
func (s *Server) BeginAddStop(w http.ResponseWriter, r *http.Request) {
	s.event(w, r, func(c *service.CardController) error {
		_, err := c.BeginAddStop()
		return err
	})
}

// UpdateAddStop handles PUT /routes/{routeId}/draft.
func (s *Server) UpdateAddStop(w http.ResponseWriter, r *http.Request) {
	var body service.StopDraft
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.event(w, r, func(c *service.CardController) error { return c.UpdateAddStop(body) })
}

// ConfirmAddStop handles POST /routes/{routeId}/draft/confirm.
// A rejected draft stays open so the user can fix it.
func (s *Server) ConfirmAddStop(w http.ResponseWriter, r *http.Request) {
	c, ok := s.card(w, r)
	if !ok {
		return
	}
	if _, err := c.ConfirmAddStop(); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c.View())
}

// DiscardAddStop handles DELETE /routes/{routeId}/draft.
func (s *Server) DiscardAddStop(w http.ResponseWriter, r *http.Request) {
	s.event(w, r, func(c *service.CardController) error {
		c.DiscardAddStop()
		return nil
	})
}

// RemoveStops handles POST /routes/{routeId}/stops/remove.
// Either every listed stop is removed or none is.
func (s *Server) RemoveStops(w http.ResponseWriter, r *http.Request) {
	var body RemoveStopsRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.event(w, r, func(c *service.CardController) error {
		_, err := c.RemoveStops(body.Nos)
		return err
	})
}
