package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/routecards/internal/domain"
	"github.com/pkordes/routecards/internal/qr"
	"github.com/pkordes/routecards/internal/repo"
	"github.com/pkordes/routecards/internal/service"
)

// maxMultipartMemory is how much of a multipart upload is held in memory
// before spilling to temp files.
const maxMultipartMemory = 8 << 20

// URLRequest carries a single URL: an image to decode or attach, an avatar
// to select, or a link to open.
type URLRequest struct {
	URL string `json:"url"`
}

// OpenDetail handles POST /routes/{routeId}/stops/{no}/detail.
func (s *Server) OpenDetail(w http.ResponseWriter, r *http.Request) {
	no, err := pathInt(r, "no")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.event(w, r, func(c *service.CardController) error { return c.OpenDetail(no) })
}

// GetDetail handles GET /routes/{routeId}/detail.
func (s *Server) GetDetail(w http.ResponseWriter, r *http.Request) {
	c, ok := s.card(w, r)
	if !ok {
		return
	}
	d, err := c.Detail()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// CancelDetail handles DELETE /routes/{routeId}/detail. Drafts are dropped
// and any decode still running is ignored when it lands.
func (s *Server) CancelDetail(w http.ResponseWriter, r *http.Request) {
	s.event(w, r, func(c *service.CardController) error {
		c.CancelDetail()
		return nil
	})
}

// SaveDetail handles POST /routes/{routeId}/detail/save.
func (s *Server) SaveDetail(w http.ResponseWriter, r *http.Request) {
	s.event(w, r, func(c *service.CardController) error {
		_, err := c.SaveDetail()
		return err
	})
}

// PutDescriptions handles PUT /routes/{routeId}/detail/descriptions.
func (s *Server) PutDescriptions(w http.ResponseWriter, r *http.Request) {
	var body []domain.Description
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.event(w, r, func(c *service.CardController) error { return c.SetDescriptions(body) })
}

// PutQR handles PUT /routes/{routeId}/detail/qr.
func (s *Server) PutQR(w http.ResponseWriter, r *http.Request) {
	var body service.QRDraft
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.event(w, r, func(c *service.CardController) error { return c.SetQR(body) })
}

// DecodeQR handles POST /routes/{routeId}/detail/qr/decode.
//
// The body is either JSON {"url": ...} naming the image, or the image itself
// (raw or as the "image" part of a multipart form). An uploaded image is kept
// as a blob and becomes the draft QR image. Without a URL the draft QR image
// is decoded. The response is 202 with the detail in the loading state; the
// outcome shows up on a later read, as "fail" when the image cannot be read.
func (s *Server) DecodeQR(w http.ResponseWriter, r *http.Request) {
	c, ok := s.card(w, r)
	if !ok {
		return
	}
	d, err := editableDetail(c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	up, err := s.readUpload(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var src qr.Source
	if up.blob != nil {
		if err := c.SetQR(service.QRDraft{ImageURL: up.blob.Ref(), DestURL: d.QRCodeDestURL}); err != nil {
			s.blobs.Delete(up.blob.ID)
			s.writeError(w, r, err)
			return
		}
		src.Image = up.blob.Data
	} else {
		ref := up.url
		if ref == "" {
			ref = d.QRCodeImageURL
		}
		src = s.sourceFor(r, ref)
	}

	if _, err := c.SubmitDecode(src); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, c.View())
}

// editableDetail returns the open row detail, or the error its edits would
// fail with. Uploads check it before anything is stored.
func editableDetail(c *service.CardController) (service.DetailView, error) {
	d, err := c.Detail()
	if err != nil {
		return d, err
	}
	if !d.Editable {
		return d, fmt.Errorf("handler.editableDetail: %w", domain.ErrEditModeOff)
	}
	return d, nil
}

// sourceFor turns an image reference into a decode source. Blob references
// are resolved locally; anything else is fetched by the decoder. A blob that
// no longer exists is passed on as its reference, which the gateway reports
// as a failed decode.
func (s *Server) sourceFor(r *http.Request, ref string) qr.Source {
	if !repo.IsBlobRef(ref) {
		return qr.Source{URL: ref}
	}
	b, err := s.blobs.Resolve(ref)
	if err != nil {
		s.log.Info("qr image blob unavailable",
			"ref", ref,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		return qr.Source{URL: ref}
	}
	return qr.Source{Image: b.Data}
}

// AddAvatar handles POST /routes/{routeId}/detail/avatars.
// The body is JSON {"url": ...} or an image, which is stored as a blob and
// added by reference. The new image becomes the selected avatar.
func (s *Server) AddAvatar(w http.ResponseWriter, r *http.Request) {
	c, ok := s.card(w, r)
	if !ok {
		return
	}
	if _, err := editableDetail(c); err != nil {
		s.writeError(w, r, err)
		return
	}
	up, err := s.readUpload(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	url := up.url
	if up.blob != nil {
		url = up.blob.Ref()
	}
	if err := c.AddAvatar(url); err != nil {
		if up.blob != nil {
			s.blobs.Delete(up.blob.ID)
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c.View())
}

// SelectAvatar handles PUT /routes/{routeId}/detail/avatars/selected.
func (s *Server) SelectAvatar(w http.ResponseWriter, r *http.Request) {
	var body URLRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.event(w, r, func(c *service.CardController) error { return c.SelectAvatarURL(body.URL) })
}

// RemoveAvatar handles DELETE /routes/{routeId}/detail/avatars/{index}.
func (s *Server) RemoveAvatar(w http.ResponseWriter, r *http.Request) {
	index, err := pathInt(r, "index")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.event(w, r, func(c *service.CardController) error { return c.RemoveAvatar(index) })
}

// RequestOpen handles POST /routes/{routeId}/detail/open. Nothing is opened
// until the request is confirmed.
func (s *Server) RequestOpen(w http.ResponseWriter, r *http.Request) {
	var body URLRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.event(w, r, func(c *service.CardController) error {
		_, err := c.RequestOpen(body.URL)
		return err
	})
}

// ConfirmOpen handles POST /routes/{routeId}/detail/open/confirm and returns
// the link the client should navigate to.
func (s *Server) ConfirmOpen(w http.ResponseWriter, r *http.Request) {
	c, ok := s.card(w, r)
	if !ok {
		return
	}
	link, err := c.ConfirmOpen()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// DismissOpen handles DELETE /routes/{routeId}/detail/open.
func (s *Server) DismissOpen(w http.ResponseWriter, r *http.Request) {
	s.event(w, r, func(c *service.CardController) error {
		c.DismissOpen()
		return nil
	})
}

// upload is what an image endpoint received: a URL, or an image stored as
// a blob.
type upload struct {
	url  string
	blob *repo.Blob
}

// readUpload accepts JSON {"url": ...}, a multipart form with an "image"
// file, or a raw image body.
func (s *Server) readUpload(r *http.Request) (upload, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var (
		data []byte
		ct   string
		err  error
	)
	switch {
	case mediaType == "application/json":
		var body URLRequest
		if err := decodeJSON(r, &body); err != nil {
			return upload{}, err
		}
		return upload{url: strings.TrimSpace(body.URL)}, nil
	case mediaType == "multipart/form-data":
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return upload{}, uploadError(err)
		}
		f, hdr, err := r.FormFile("image")
		if err != nil {
			return upload{}, badRequest("multipart form needs an image file")
		}
		defer f.Close()
		if data, err = io.ReadAll(f); err != nil {
			return upload{}, uploadError(err)
		}
		ct = hdr.Header.Get("Content-Type")
	default:
		if r.Body == nil {
			return upload{}, badRequest("image body is required")
		}
		if data, err = io.ReadAll(r.Body); err != nil {
			return upload{}, uploadError(err)
		}
		ct = mediaType
	}

	if len(data) == 0 {
		return upload{}, badRequest("image body is required")
	}
	b, err := s.blobs.Put(data, ct)
	if err != nil {
		return upload{}, err
	}
	return upload{blob: &b}, nil
}

func uploadError(err error) error {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return err
	}
	return badRequest("unreadable upload: " + err.Error())
}
