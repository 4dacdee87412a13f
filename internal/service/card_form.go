package service

import (
	"fmt"
	"strings"

	"github.com/pkordes/routecards/internal/domain"
)

// FormFields are the route fields the edit form covers.
type FormFields struct {
	Title       string       `json:"title"`
	Code        string       `json:"code"`
	Shift       domain.Shift `json:"shift"`
	Description string       `json:"description"`
	Color       domain.Color `json:"color"`
	Tags        []string     `json:"tags"`
}

func formFieldsOf(r domain.Route) FormFields {
	return FormFields{
		Title:       r.Title,
		Code:        r.Code,
		Shift:       r.Shift,
		Description: r.Description,
		Color:       r.Color,
		Tags:        append([]string{}, r.Tags...),
	}
}

func (f FormFields) clone() FormFields {
	f.Tags = append([]string{}, f.Tags...)
	return f
}

// FormPatch is a partial update to the edit form drafts. Nil fields are left
// alone.
type FormPatch struct {
	Title       *string   `json:"title,omitempty"`
	Code        *string   `json:"code,omitempty"`
	Shift       *string   `json:"shift,omitempty"`
	Description *string   `json:"description,omitempty"`
	Color       *string   `json:"color,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// formState holds the edit form drafts. The committed route is the snapshot
// they were taken from, so cancelling only has to drop them.
type formState struct {
	draft FormFields
}

func newFormState(r domain.Route) *formState {
	return &formState{draft: formFieldsOf(r)}
}

func (c *CardController) requireForm(op string) (*formState, error) {
	if c.panel != PanelEditForm || c.form == nil {
		return nil, fmt.Errorf("service.CardController.%s: %w: edit form is not open", op, domain.ErrInvalidState)
	}
	return c.form, nil
}

// Form returns a copy of the current edit-form drafts.
func (c *CardController) Form() (FormFields, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, err := c.requireForm("Form")
	if err != nil {
		return FormFields{}, err
	}
	return f.draft.clone(), nil
}

// UpdateForm applies p to the drafts. Shift and color are checked here so a
// bad value is reported next to its field; the drafts are untouched on error.
func (c *CardController) UpdateForm(p FormPatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, err := c.requireForm("UpdateForm")
	if err != nil {
		return err
	}

	next := f.draft.clone()
	var verr domain.ValidationError
	if p.Title != nil {
		next.Title = *p.Title
	}
	if p.Code != nil {
		next.Code = *p.Code
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.Shift != nil {
		if s, ok := domain.ParseShift(*p.Shift); ok {
			next.Shift = s
		} else {
			verr.Add("shift", fmt.Sprintf("unknown shift %q", *p.Shift))
		}
	}
	if p.Color != nil {
		if col, err := domain.ParseColor(*p.Color); err == nil {
			next.Color = col
		} else {
			verr.Add("color", fmt.Sprintf("invalid color %q", *p.Color))
		}
	}
	if p.Tags != nil {
		next.Tags = cleanTags(*p.Tags)
	}
	if err := verr.OrNil(); err != nil {
		return fmt.Errorf("service.CardController.UpdateForm: %w", err)
	}
	f.draft = next
	return nil
}

// AddTag appends a tag to the drafts. Duplicates are allowed.
func (c *CardController) AddTag(tag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, err := c.requireForm("AddTag")
	if err != nil {
		return err
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("service.CardController.AddTag: %w: tag is required", domain.ErrValidation)
	}
	f.draft.Tags = append(f.draft.Tags, tag)
	return nil
}

// RenameTag replaces the draft tag at index. A blank name leaves the tag as
// it was.
func (c *CardController) RenameTag(index int, tag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, err := c.requireForm("RenameTag")
	if err != nil {
		return err
	}
	if index < 0 || index >= len(f.draft.Tags) {
		return fmt.Errorf("service.CardController.RenameTag: %w: tag %d", domain.ErrNotFound, index)
	}
	if tag = strings.TrimSpace(tag); tag != "" {
		f.draft.Tags[index] = tag
	}
	return nil
}

// RemoveTag drops the draft tag at index.
func (c *CardController) RemoveTag(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, err := c.requireForm("RemoveTag")
	if err != nil {
		return err
	}
	if index < 0 || index >= len(f.draft.Tags) {
		return fmt.Errorf("service.CardController.RemoveTag: %w: tag %d", domain.ErrNotFound, index)
	}
	f.draft.Tags = append(f.draft.Tags[:index], f.draft.Tags[index+1:]...)
	return nil
}

// SaveForm commits the drafts and returns to the default panel.
// An empty title blocks the save and keeps the form open.
func (c *CardController) SaveForm() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, err := c.requireForm("SaveForm")
	if err != nil {
		return err
	}

	title := strings.TrimSpace(f.draft.Title)
	if title == "" {
		verr := &domain.ValidationError{}
		verr.Add("title", "title is required")
		return fmt.Errorf("service.CardController.SaveForm: %w", verr)
	}

	d := f.draft.clone()
	c.route.Title = title
	c.route.Code = strings.TrimSpace(d.Code)
	c.route.Shift = d.Shift
	c.route.Description = d.Description
	c.route.Color = d.Color
	c.route.Tags = d.Tags
	c.touch("form")

	c.form = nil
	c.panel = PanelDefault
	return nil
}

// CancelForm discards the drafts and returns to the default panel. The route
// is left exactly as it was when the form opened.
func (c *CardController) CancelForm() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.requireForm("CancelForm"); err != nil {
		return err
	}
	c.form = nil
	c.panel = PanelDefault
	return nil
}

// cleanTags trims tags and drops empty ones, keeping order and duplicates.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
