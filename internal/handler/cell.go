package handler

import (
	"net/http"

	"github.com/pkordes/routecards/internal/service"
)

// CellRequest opens an inline editor.
type CellRequest struct {
	RowNo int    `json:"rowNo"`
	Field string `json:"field"`
}

// CellValueRequest replaces the text in the open editor.
type CellValueRequest struct {
	Value string `json:"value"`
}

// DeliveryRequest commits a choice from the delivery dialog. An empty
// delivery writes Standard.
type DeliveryRequest struct {
	Delivery string `json:"delivery"`
}

// BeginCellEdit handles POST /routes/{routeId}/cell.
func (s *Server) BeginCellEdit(w http.ResponseWriter, r *http.Request) {
	var body CellRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	field, ok := service.ParseCellField(body.Field)
	if !ok {
		s.writeError(w, r, badRequest("unknown field "+body.Field))
		return
	}
	s.event(w, r, func(c *service.CardController) error { return c.BeginCellEdit(body.RowNo, field) })
}

// SetCellValue handles PUT /routes/{routeId}/cell.
func (s *Server) SetCellValue(w http.ResponseWriter, r *http.Request) {
	var body CellValueRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.event(w, r, func(c *service.CardController) error { return c.SetCellValue(body.Value) })
}

// CommitCell handles POST /routes/{routeId}/cell/commit.
func (s *Server) CommitCell(w http.ResponseWriter, r *http.Request) {
	s.event(w, r, func(c *service.CardController) error {
		_, err := c.CommitCell()
		return err
	})
}

// CancelCell handles DELETE /routes/{routeId}/cell.
func (s *Server) CancelCell(w http.ResponseWriter, r *http.Request) {
	s.event(w, r, func(c *service.CardController) error {
		c.CancelCell()
		return nil
	})
}

// ChooseDelivery handles PUT /routes/{routeId}/delivery.
func (s *Server) ChooseDelivery(w http.ResponseWriter, r *http.Request) {
	var body DeliveryRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.event(w, r, func(c *service.CardController) error {
		_, err := c.ChooseDelivery(body.Delivery)
		return err
	})
}

// CloseDeliveryDialog handles DELETE /routes/{routeId}/delivery.
func (s *Server) CloseDeliveryDialog(w http.ResponseWriter, r *http.Request) {
	s.event(w, r, func(c *service.CardController) error {
		c.CloseDeliveryDialog()
		return nil
	})
}
