package service

import (
	"time"

	"github.com/pkordes/routecards/internal/domain"
	"github.com/pkordes/routecards/internal/geo"
)

// CardView is a read-only snapshot of everything a card renders.
// It shares no memory with the controller.
type CardView struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Subtitle       string       `json:"subtitle"`
	City           string       `json:"city"`
	Country        string       `json:"country,omitempty"`
	Code           string       `json:"code"`
	Shift          domain.Shift `json:"shift"`
	Description    string       `json:"description"`
	Tags           []string     `json:"tags"`
	Color          domain.Color `json:"color"`
	RouteLineColor string       `json:"routeLineColor"`

	Panel    Panel `json:"panel"`
	EditMode bool  `json:"editMode"`

	LastModified time.Time `json:"lastModified"`
	UpdatedAgo   string    `json:"updatedAgo"`
	Today        string    `json:"today"`
	RefreshedAt  time.Time `json:"refreshedAt"`
	Ticks        int       `json:"ticks"`

	Rows []StopView `json:"rows"`

	Form           *FormFields         `json:"form,omitempty"`
	Cell           *CellEdit           `json:"cell,omitempty"`
	DeliveryDialog *DeliveryDialogView `json:"deliveryDialog,omitempty"`
	Adding         *StopDraft          `json:"adding,omitempty"`
	Detail         *DetailView         `json:"detail,omitempty"`
}

// StopView is a row as the table shows it, with its delivery badge.
type StopView struct {
	domain.Stop
	ActiveToday  bool   `json:"activeToday"`
	DeliveryInfo string `json:"deliveryInfo"`
}

// ChangelogLine is one rendered changelog entry.
type ChangelogLine struct {
	Date    time.Time        `json:"date"`
	Day     string           `json:"day"`
	Kind    domain.EntryKind `json:"kind"`
	Names   []string         `json:"names"`
	Summary string           `json:"summary"`
}

// DeliveryOption is one choice in the delivery dialog.
type DeliveryOption struct {
	Value       domain.Delivery `json:"value"`
	Description string          `json:"description"`
	ActiveToday bool            `json:"activeToday"`
}

// DeliveryDialogView is the open delivery selection dialog.
type DeliveryDialogView struct {
	RowNo   int              `json:"rowNo"`
	Current domain.Delivery  `json:"current"`
	Options []DeliveryOption `json:"options"`
}

// DetailView is the open row detail: the committed stop next to the drafts
// being edited.
type DetailView struct {
	StopNo   int         `json:"stopNo"`
	Stop     domain.Stop `json:"stop"`
	Editable bool        `json:"editable"`

	Descriptions   []domain.Description `json:"descriptions"`
	QRCodeImageURL string               `json:"qrCodeImageUrl"`
	QRCodeDestURL  string               `json:"qrCodeDestUrl"`
	QRStatus       string               `json:"qrStatus"`
	QRText         string               `json:"qrText,omitempty"`
	QRError        string               `json:"qrError,omitempty"`
	AvatarImages   []string             `json:"avatarImages"`
	AvatarImageURL string               `json:"avatarImageUrl"`

	Links       []geo.NavLink `json:"links"`
	PendingOpen *geo.NavLink  `json:"pendingOpen,omitempty"`
}

// View returns the current card snapshot.
func (c *CardController) View() CardView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *CardController) viewLocked() CardView {
	now := c.opts.Now()
	r := c.route

	v := CardView{
		ID:             r.ID.String(),
		Title:          r.Title,
		Subtitle:       r.Subtitle(),
		City:           r.City,
		Country:        r.Country,
		Code:           r.Code,
		Shift:          r.Shift,
		Description:    r.Description,
		Tags:           append([]string{}, r.Tags...),
		Color:          r.Color,
		RouteLineColor: r.Color.RouteLine(),
		Panel:          c.panel,
		EditMode:       c.editMode,
		LastModified:   r.LastModified,
		UpdatedAgo:     domain.TimeAgo(r.LastModified, now),
		Today:          domain.ShortDate(now),
		RefreshedAt:    c.refreshedAt,
		Ticks:          c.ticks,
		Rows:           make([]StopView, len(r.Rows)),
	}
	for i, s := range r.Rows {
		v.Rows[i] = StopView{
			Stop:         s.Clone(),
			ActiveToday:  s.Delivery.IsActive(now),
			DeliveryInfo: s.Delivery.Describe(),
		}
	}

	if c.form != nil {
		f := c.form.draft.clone()
		v.Form = &f
	}
	if c.cell != nil {
		cell := *c.cell
		v.Cell = &cell
	}
	if c.delivery != nil {
		v.DeliveryDialog = c.delivery.view(now)
	}
	if c.adding != nil {
		d := *c.adding
		v.Adding = &d
	}
	if c.detail != nil {
		v.Detail = c.detailViewLocked()
	}
	return v
}
