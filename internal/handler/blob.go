package handler

import (
	"net/http"
	"strconv"
)

// GetBlob handles GET /blobs/{blobId}, serving an uploaded image back with
// its content type.
func (s *Server) GetBlob(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "blobId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	b, err := s.blobs.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", b.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(b.Data)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // the client is gone if this fails
	w.Write(b.Data)
}
