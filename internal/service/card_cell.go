package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/routecards/internal/domain"
)

// CellField names an inline-editable table column.
type CellField string

const (
	CellCode      CellField = "code"
	CellName      CellField = "name"
	CellDelivery  CellField = "delivery"
	CellKm        CellField = "km"
	CellLatitude  CellField = "latitude"
	CellLongitude CellField = "longitude"
)

// ParseCellField maps a column name onto a CellField.
func ParseCellField(s string) (CellField, bool) {
	switch f := CellField(strings.ToLower(strings.TrimSpace(s))); f {
	case CellCode, CellName, CellDelivery, CellKm, CellLatitude, CellLongitude:
		return f, true
	}
	return "", false
}

// CellEdit is the open inline editor.
type CellEdit struct {
	RowNo int       `json:"rowNo"`
	Field CellField `json:"field"`
	Value string    `json:"value"`
}

type deliveryDialog struct {
	rowNo   int
	current domain.Delivery
}

func (d *deliveryDialog) view(now time.Time) *DeliveryDialogView {
	opts := make([]DeliveryOption, len(domain.DeliveryOptions))
	for i, o := range domain.DeliveryOptions {
		opts[i] = DeliveryOption{Value: o, Description: o.Describe(), ActiveToday: o.IsActive(now)}
	}
	return &DeliveryDialogView{RowNo: d.rowNo, Current: d.current, Options: opts}
}

// BeginCellEdit opens the editor on one cell of stop no. A delivery cell
// opens the delivery dialog instead of a free-text editor. Any editor already
// open is dropped without committing.
func (c *CardController) BeginCellEdit(no int, field CellField) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireEditing("BeginCellEdit"); err != nil {
		return err
	}
	i := c.route.StopIndex(no)
	if i < 0 {
		return fmt.Errorf("service.CardController.BeginCellEdit: %w: stop %d", domain.ErrNotFound, no)
	}
	s := c.route.Rows[i]

	c.cell = nil
	c.delivery = nil
	switch field {
	case CellDelivery:
		c.delivery = &deliveryDialog{rowNo: no, current: s.Delivery}
	case CellCode:
		c.cell = &CellEdit{RowNo: no, Field: field, Value: s.Code}
	case CellName:
		c.cell = &CellEdit{RowNo: no, Field: field, Value: s.Name}
	case CellKm:
		c.cell = &CellEdit{RowNo: no, Field: field, Value: formatNumber(s.Km)}
	case CellLatitude:
		c.cell = &CellEdit{RowNo: no, Field: field, Value: formatNumber(s.Latitude)}
	case CellLongitude:
		c.cell = &CellEdit{RowNo: no, Field: field, Value: formatNumber(s.Longitude)}
	default:
		return fmt.Errorf("service.CardController.BeginCellEdit: %w: unknown field %q", domain.ErrValidation, field)
	}
	return nil
}

// SetCellValue replaces the text in the open editor.
func (c *CardController) SetCellValue(value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cell == nil {
		return fmt.Errorf("service.CardController.SetCellValue: %w: no cell is being edited", domain.ErrInvalidState)
	}
	c.cell.Value = value
	return nil
}

// CommitCell writes the editor's value into the stop and closes the editor.
// Numbers parse leniently. An empty name is rejected and the editor stays
// open; an empty code falls back to the placeholder.
func (c *CardController) CommitCell() (domain.Stop, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cell == nil {
		return domain.Stop{}, fmt.Errorf("service.CardController.CommitCell: %w: no cell is being edited", domain.ErrInvalidState)
	}
	edit := *c.cell
	i := c.route.StopIndex(edit.RowNo)
	if i < 0 {
		c.cell = nil
		return domain.Stop{}, fmt.Errorf("service.CardController.CommitCell: %w: stop %d", domain.ErrNotFound, edit.RowNo)
	}

	s := &c.route.Rows[i]
	switch edit.Field {
	case CellName:
		name := strings.TrimSpace(edit.Value)
		if name == "" {
			verr := &domain.ValidationError{}
			verr.Add("name", "name is required")
			return domain.Stop{}, fmt.Errorf("service.CardController.CommitCell: %w", verr)
		}
		s.Name = name
	case CellCode:
		s.Code = strings.TrimSpace(edit.Value)
		if s.Code == "" {
			s.Code = PlaceholderCode(s.No)
		}
	case CellKm:
		s.Km = ParseKm(edit.Value)
	case CellLatitude:
		s.Latitude = ParseLenientFloat(edit.Value)
	case CellLongitude:
		s.Longitude = ParseLenientFloat(edit.Value)
	}
	c.touch("cell")
	c.cell = nil
	return s.Clone(), nil
}

// CancelCell closes the editor without writing anything.
func (c *CardController) CancelCell() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cell = nil
}

// ChooseDelivery commits the rule picked in the delivery dialog and closes
// it. An empty choice writes Standard.
func (c *CardController) ChooseDelivery(choice string) (domain.Stop, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.delivery == nil {
		return domain.Stop{}, fmt.Errorf("service.CardController.ChooseDelivery: %w: delivery dialog is not open", domain.ErrInvalidState)
	}

	rule := domain.DeliveryStandard
	if strings.TrimSpace(choice) != "" {
		parsed, ok := domain.ParseDelivery(choice)
		if !ok {
			verr := &domain.ValidationError{}
			verr.Add("delivery", fmt.Sprintf("unknown delivery %q", choice))
			return domain.Stop{}, fmt.Errorf("service.CardController.ChooseDelivery: %w", verr)
		}
		rule = parsed
	}

	no := c.delivery.rowNo
	c.delivery = nil
	i := c.route.StopIndex(no)
	if i < 0 {
		return domain.Stop{}, fmt.Errorf("service.CardController.ChooseDelivery: %w: stop %d", domain.ErrNotFound, no)
	}
	c.route.Rows[i].Delivery = rule
	c.touch("delivery")
	return c.route.Rows[i].Clone(), nil
}

// CloseDeliveryDialog dismisses the dialog without changing the stop.
func (c *CardController) CloseDeliveryDialog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delivery = nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
