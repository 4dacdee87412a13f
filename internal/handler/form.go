package handler

import (
	"net/http"

	"github.com/pkordes/routecards/internal/service"
)

// TagRequest carries one tag for the add and rename endpoints.
type TagRequest struct {
	Tag string `json:"tag"`
}

// GetForm handles GET /routes/{routeId}/form.
func (s *Server) GetForm(w http.ResponseWriter, r *http.Request) {
	c, ok := s.card(w, r)
	if !ok {
		return
	}
	f, err := c.Form()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// PatchForm handles PATCH /routes/{routeId}/form. Absent fields keep their
// draft value.
func (s *Server) PatchForm(w http.ResponseWriter, r *http.Request) {
	var body service.FormPatch
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.event(w, r, func(c *service.CardController) error { return c.UpdateForm(body) })
}

// AddTag handles POST /routes/{routeId}/form/tags.
func (s *Server) AddTag(w http.ResponseWriter, r *http.Request) {
	var body TagRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.event(w, r, func(c *service.CardController) error { return c.AddTag(body.Tag) })
}

// RenameTag handles PUT /routes/{routeId}/form/tags/{index}.
func (s *Server) RenameTag(w http.ResponseWriter, r *http.Request) {
	index, err := pathInt(r, "index")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body TagRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.event(w, r, func(c *service.CardController) error { return c.RenameTag(index, body.Tag) })
}

// RemoveTag handles DELETE /routes/{routeId}/form/tags/{index}.
func (s *Server) RemoveTag(w http.ResponseWriter, r *http.Request) {
	index, err := pathInt(r, "index")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.event(w, r, func(c *service.CardController) error { return c.RemoveTag(index) })
}

// SaveForm handles POST /routes/{routeId}/form/save.
func (s *Server) SaveForm(w http.ResponseWriter, r *http.Request) {
	s.event(w, r, (*service.CardController).SaveForm)
}

// CancelForm handles POST /routes/{routeId}/form/cancel.
func (s *Server) CancelForm(w http.ResponseWriter, r *http.Request) {
	s.event(w, r, (*service.CardController).CancelForm)
}
