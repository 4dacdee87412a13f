package service

import (
	"fmt"
	"slices"

	"github.com/pkordes/routecards/internal/domain"
)

// BeginAddStop opens the pending add-stop row. The draft starts with a Daily
// delivery. Opening it again keeps the draft already being typed.
func (c *CardController) BeginAddStop() (StopDraft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireEditing("BeginAddStop"); err != nil {
		return StopDraft{}, err
	}
	if c.adding == nil {
		c.adding = &StopDraft{Delivery: string(domain.DeliveryDaily)}
	}
	return *c.adding, nil
}

// UpdateAddStop replaces the pending draft.
func (c *CardController) UpdateAddStop(d StopDraft) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.adding == nil {
		return fmt.Errorf("service.CardController.UpdateAddStop: %w: no stop is being added", domain.ErrInvalidState)
	}
	*c.adding = d
	return nil
}

// ConfirmAddStop validates the pending draft and appends it as a new stop.
// The stop gets the next unused number and the changelog gets one entry
// naming it. On a validation error nothing changes and the draft stays open.
func (c *CardController) ConfirmAddStop() (domain.Stop, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.adding == nil {
		return domain.Stop{}, fmt.Errorf("service.CardController.ConfirmAddStop: %w: no stop is being added", domain.ErrInvalidState)
	}

	no := c.nextStopNo()
	s, err := ValidateStop(*c.adding, no)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.CardController.ConfirmAddStop: %w", err)
	}

	c.route.Rows = append(c.route.Rows, s)
	c.highNo = no
	c.route.Changelog.Append([]string{s.Name}, c.opts.Now())
	c.touch("add stop")
	c.adding = nil

	c.log.Info("stop added", "stop_no", s.No, "name", s.Name)
	return s.Clone(), nil
}

// DiscardAddStop drops the pending draft.
func (c *CardController) DiscardAddStop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adding = nil
}

// RemoveStops deletes the stops numbered nos. Either every number exists and
// all are removed, or nothing is. Removals are not journaled. Editors bound
// to a removed stop are closed.
func (c *CardController) RemoveStops(nos []int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireEditing("RemoveStops"); err != nil {
		return 0, err
	}
	if len(nos) == 0 {
		return 0, nil
	}
	for _, no := range nos {
		if c.route.StopIndex(no) < 0 {
			return 0, fmt.Errorf("service.CardController.RemoveStops: %w: stop %d", domain.ErrNotFound, no)
		}
	}

	before := len(c.route.Rows)
	c.route.Rows = slices.DeleteFunc(c.route.Rows, func(s domain.Stop) bool {
		return slices.Contains(nos, s.No)
	})
	removed := before - len(c.route.Rows)

	if c.cell != nil && slices.Contains(nos, c.cell.RowNo) {
		c.cell = nil
	}
	if c.delivery != nil && slices.Contains(nos, c.delivery.rowNo) {
		c.delivery = nil
	}
	if c.detail != nil && slices.Contains(nos, c.detail.stopNo) {
		c.detail = nil
		c.generation++
	}
	c.touch("remove stops")
	c.log.Info("stops removed", "count", removed)
	return removed, nil
}

// nextStopNo is one past the highest number currently present or ever
// assigned in this session.
func (c *CardController) nextStopNo() int {
	return max(c.route.MaxStopNo(), c.highNo) + 1
}
