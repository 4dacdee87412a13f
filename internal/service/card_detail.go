package service

import (
	"fmt"
	"strings"

	"github.com/pkordes/routecards/internal/domain"
	"github.com/pkordes/routecards/internal/geo"
	"github.com/pkordes/routecards/internal/qr"
)

// detailState is the open row detail: draft copies of one stop's
// descriptions, QR attachment and avatar gallery.
type detailState struct {
	stopNo int
	// generation is the controller generation this session or its latest
	// decode submission was stamped with.
	generation uint64

	descriptions []domain.Description
	qrImageURL   string
	qrDestURL    string
	qrStatus     qr.Status
	qrText       string
	qrError      string
	avatars      []string
	avatarURL    string

	pendingOpen *geo.NavLink
}

// newDetail snapshots s into a fresh session stamped with the current
// generation.
func (c *CardController) newDetail(s domain.Stop) *detailState {
	s = s.Clone()
	return &detailState{
		stopNo:       s.No,
		generation:   c.generation,
		descriptions: s.Descriptions,
		qrImageURL:   s.QRCodeImageURL,
		qrDestURL:    s.QRCodeDestURL,
		qrStatus:     qr.StatusIdle,
		avatars:      s.AvatarImages,
		avatarURL:    s.AvatarImageURL,
	}
}

func (c *CardController) detailViewLocked() *DetailView {
	d := c.detail
	v := &DetailView{
		StopNo:         d.stopNo,
		Editable:       c.editMode,
		Descriptions:   append([]domain.Description{}, d.descriptions...),
		QRCodeImageURL: d.qrImageURL,
		QRCodeDestURL:  d.qrDestURL,
		QRStatus:       d.qrStatus.String(),
		QRText:         d.qrText,
		QRError:        d.qrError,
		AvatarImages:   append([]string{}, d.avatars...),
		AvatarImageURL: d.avatarURL,
		Links:          []geo.NavLink{},
	}
	if i := c.route.StopIndex(d.stopNo); i >= 0 {
		v.Stop = c.route.Rows[i].Clone()
		if links := geo.NavigationLinks(v.Stop); links != nil {
			v.Links = links
		}
	}
	if d.pendingOpen != nil {
		link := *d.pendingOpen
		v.PendingOpen = &link
	}
	return v
}

// Detail returns the open row detail.
func (c *CardController) Detail() (DetailView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detail == nil {
		return DetailView{}, fmt.Errorf("service.CardController.Detail: %w: row detail is not open", domain.ErrInvalidState)
	}
	return *c.detailViewLocked(), nil
}

// OpenDetail opens the row detail for stop no, replacing any detail already
// open. It works without edit mode, as a read-only viewer.
func (c *CardController) OpenDetail(no int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.panel != PanelDefault {
		return fmt.Errorf("service.CardController.OpenDetail: %w: panel %s is open", domain.ErrInvalidState, c.panel)
	}
	i := c.route.StopIndex(no)
	if i < 0 {
		return fmt.Errorf("service.CardController.OpenDetail: %w: stop %d", domain.ErrNotFound, no)
	}
	c.generation++
	c.detail = c.newDetail(c.route.Rows[i])
	return nil
}

// CancelDetail closes the row detail and discards its drafts. A decode still
// in flight will find its session gone and be dropped.
func (c *CardController) CancelDetail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detail != nil {
		c.detail = nil
		c.generation++
	}
}

// SaveDetail merges the drafts into the stop and closes the row detail.
// Descriptions with a blank key and value are dropped.
func (c *CardController) SaveDetail() (domain.Stop, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, err := c.requireDetailEditing("SaveDetail")
	if err != nil {
		return domain.Stop{}, err
	}
	i := c.route.StopIndex(d.stopNo)
	if i < 0 {
		c.detail = nil
		c.generation++
		return domain.Stop{}, fmt.Errorf("service.CardController.SaveDetail: %w: stop %d", domain.ErrNotFound, d.stopNo)
	}

	s := &c.route.Rows[i]
	s.Descriptions = make([]domain.Description, 0, len(d.descriptions))
	for _, desc := range d.descriptions {
		desc.Key = strings.TrimSpace(desc.Key)
		if desc.Key == "" && strings.TrimSpace(desc.Value) == "" {
			continue
		}
		s.Descriptions = append(s.Descriptions, desc)
	}
	s.QRCodeImageURL = d.qrImageURL
	s.QRCodeDestURL = d.qrDestURL
	s.AvatarImages = append([]string{}, d.avatars...)
	s.AvatarImageURL = d.avatarURL
	c.touch("detail")

	c.detail = nil
	c.generation++
	return s.Clone(), nil
}

func (c *CardController) requireDetail(op string) (*detailState, error) {
	if c.detail == nil {
		return nil, fmt.Errorf("service.CardController.%s: %w: row detail is not open", op, domain.ErrInvalidState)
	}
	return c.detail, nil
}

func (c *CardController) requireDetailEditing(op string) (*detailState, error) {
	d, err := c.requireDetail(op)
	if err != nil {
		return nil, err
	}
	if !c.editMode {
		return nil, fmt.Errorf("service.CardController.%s: %w", op, domain.ErrEditModeOff)
	}
	return d, nil
}

// ---- descriptions ----------------------------------------------------------

// SetDescriptions replaces the draft descriptions.
func (c *CardController) SetDescriptions(descs []domain.Description) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, err := c.requireDetailEditing("SetDescriptions")
	if err != nil {
		return err
	}
	d.descriptions = append([]domain.Description{}, descs...)
	return nil
}

// ---- QR attachment ---------------------------------------------------------

// QRDraft is the QR attachment as typed into the row detail.
type QRDraft struct {
	ImageURL string `json:"imageUrl"`
	DestURL  string `json:"destUrl"`
}

// SetQR replaces the QR drafts. Changing the image resets the decode status.
func (c *CardController) SetQR(q QRDraft) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, err := c.requireDetailEditing("SetQR")
	if err != nil {
		return err
	}
	img := strings.TrimSpace(q.ImageURL)
	if img != d.qrImageURL {
		d.qrStatus = qr.StatusIdle
		d.qrText = ""
		d.qrError = ""
	}
	d.qrImageURL = img
	d.qrDestURL = strings.TrimSpace(q.DestURL)
	return nil
}

// SubmitDecode starts decoding src for the open row detail and returns the
// loading status at once. Without image bytes or a URL in src, the draft QR
// image URL is decoded. The result lands in the drafts later, but only if the
// same detail session is still open and no newer decode was submitted.
func (c *CardController) SubmitDecode(src qr.Source) (qr.Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, err := c.requireDetailEditing("SubmitDecode")
	if err != nil {
		return "", err
	}
	if len(src.Image) == 0 && strings.TrimSpace(src.URL) == "" {
		src.URL = d.qrImageURL
	}

	c.generation++
	d.generation = c.generation
	d.qrStatus = qr.StatusLoading
	d.qrText = ""
	d.qrError = ""

	no, gen := d.stopNo, d.generation
	return c.opts.Gateway.Submit(src, func(res qr.Result) {
		c.applyDecode(no, gen, res)
	}), nil
}

func (c *CardController) applyDecode(no int, gen uint64, res qr.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.detail
	if d == nil || d.stopNo != no || d.generation != gen {
		c.log.Info("stale qr decode discarded", "stop_no", no, "status", res.Status.String())
		return
	}
	d.qrStatus = res.Status
	d.qrText = res.Text
	if res.Status == qr.StatusOK && res.DestURL != "" {
		d.qrDestURL = res.DestURL
	}
	if res.Err != nil {
		d.qrError = res.Err.Error()
	}
}

// ---- avatar gallery --------------------------------------------------------

// AddAvatar appends an image to the gallery and selects it.
func (c *CardController) AddAvatar(url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, err := c.requireDetailEditing("AddAvatar")
	if err != nil {
		return err
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("service.CardController.AddAvatar: %w: image url is required", domain.ErrValidation)
	}
	d.avatars = append(d.avatars, url)
	d.avatarURL = url
	return nil
}

// SelectAvatar marks the gallery image at index as the stop's avatar.
func (c *CardController) SelectAvatar(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, err := c.requireDetailEditing("SelectAvatar")
	if err != nil {
		return err
	}
	if index < 0 || index >= len(d.avatars) {
		return fmt.Errorf("service.CardController.SelectAvatar: %w: avatar %d", domain.ErrNotFound, index)
	}
	d.avatarURL = d.avatars[index]
	return nil
}

// SelectAvatarURL marks the gallery image equal to url as the stop's avatar.
func (c *CardController) SelectAvatarURL(url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, err := c.requireDetailEditing("SelectAvatarURL")
	if err != nil {
		return err
	}
	url = strings.TrimSpace(url)
	for _, img := range d.avatars {
		if img == url {
			d.avatarURL = img
			return nil
		}
	}
	return fmt.Errorf("service.CardController.SelectAvatarURL: %w: %q is not in the gallery", domain.ErrNotFound, url)
}

// RemoveAvatar drops the gallery image at index. If the selected avatar is
// no longer in the gallery, the selection moves to the image that took the
// removed one's place, wrapping to the first image, or to none when the
// gallery is empty.
func (c *CardController) RemoveAvatar(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, err := c.requireDetailEditing("RemoveAvatar")
	if err != nil {
		return err
	}
	if index < 0 || index >= len(d.avatars) {
		return fmt.Errorf("service.CardController.RemoveAvatar: %w: avatar %d", domain.ErrNotFound, index)
	}
	d.avatars = append(d.avatars[:index], d.avatars[index+1:]...)
	d.avatarURL = fallbackAvatar(d.avatars, d.avatarURL, index)
	return nil
}

func fallbackAvatar(gallery []string, selected string, removed int) string {
	for _, img := range gallery {
		if img == selected {
			return selected
		}
	}
	switch {
	case removed < len(gallery):
		return gallery[removed]
	case len(gallery) > 0:
		return gallery[0]
	}
	return ""
}

// ---- navigation ------------------------------------------------------------

// QRDestinationLabel names the QR destination when it is offered as a link.
const QRDestinationLabel = "QR destination"

// RequestOpen asks to leave the app for url, which must be one of the stop's
// navigation links or its QR destination. Nothing opens until ConfirmOpen.
func (c *CardController) RequestOpen(url string) (geo.NavLink, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, err := c.requireDetail("RequestOpen")
	if err != nil {
		return geo.NavLink{}, err
	}
	url = strings.TrimSpace(url)
	for _, link := range c.openableLocked(d) {
		if link.URL == url {
			d.pendingOpen = &link
			return link, nil
		}
	}
	return geo.NavLink{}, fmt.Errorf("service.CardController.RequestOpen: %w: %q is not a link of stop %d", domain.ErrNotFound, url, d.stopNo)
}

// openableLocked lists the external links the open detail may leave for.
func (c *CardController) openableLocked(d *detailState) []geo.NavLink {
	var links []geo.NavLink
	if i := c.route.StopIndex(d.stopNo); i >= 0 {
		s := c.route.Rows[i]
		links = append(links, geo.NavigationLinks(s)...)
		if u, ok := qr.DestinationURL(s.QRCodeDestURL); ok {
			links = append(links, geo.NavLink{Label: QRDestinationLabel, URL: u})
		}
	}
	if u, ok := qr.DestinationURL(d.qrDestURL); ok {
		links = append(links, geo.NavLink{Label: QRDestinationLabel, URL: u})
	}
	return links
}

// ConfirmOpen accepts the pending request and returns the link to open.
func (c *CardController) ConfirmOpen() (geo.NavLink, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, err := c.requireDetail("ConfirmOpen")
	if err != nil {
		return geo.NavLink{}, err
	}
	if d.pendingOpen == nil {
		return geo.NavLink{}, fmt.Errorf("service.CardController.ConfirmOpen: %w: nothing to open", domain.ErrInvalidState)
	}
	link := *d.pendingOpen
	d.pendingOpen = nil
	c.log.Info("leaving for navigation app", "label", link.Label)
	return link, nil
}

// DismissOpen drops the pending request.
func (c *CardController) DismissOpen() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detail != nil {
		c.detail.pendingOpen = nil
	}
}
