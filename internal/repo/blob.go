// Package repo holds the session's in-memory stores. Nothing here touches a
// disk or a remote server: every reference handed out lives only as long as
// the process.
package repo

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/routecards/internal/domain"
)

// BlobScheme prefixes every local media reference, mirroring browser
// object URLs.
const BlobScheme = "blob:"

// Blob is one locally selected file, e.g. an avatar or a QR photo.
type Blob struct {
	ID          uuid.UUID
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

// Ref returns the reference stored on a stop, e.g. "blob:6f1c…".
func (b Blob) Ref() string {
	return BlobScheme + b.ID.String()
}

// BlobRepo defines the operations on ephemeral media blobs.
type BlobRepo interface {
	// Put stores data and returns the new blob. An empty contentType is sniffed.
	Put(data []byte, contentType string) (Blob, error)

	// Get returns the blob with the given id.
	// Returns domain.ErrNotFound if no such blob exists.
	Get(id uuid.UUID) (Blob, error)

	// Resolve returns the blob behind a "blob:<uuid>" reference.
	// Returns domain.ErrNotFound for unknown or malformed references.
	Resolve(ref string) (Blob, error)

	// Delete drops the blob with the given id. Unknown ids are ignored.
	Delete(id uuid.UUID)
}

// memBlobRepo is the in-memory implementation of BlobRepo.
type memBlobRepo struct {
	mu    sync.RWMutex
	blobs map[uuid.UUID]Blob
	now   func() time.Time
}

// NewBlobRepo constructs an empty in-memory BlobRepo.
func NewBlobRepo() BlobRepo {
	return &memBlobRepo{blobs: make(map[uuid.UUID]Blob), now: time.Now}
}

func (r *memBlobRepo) Put(data []byte, contentType string) (Blob, error) {
	if len(data) == 0 {
		return Blob{}, fmt.Errorf("repo.BlobRepo.Put: %w: empty file", domain.ErrValidation)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	b := Blob{
		ID:          uuid.New(),
		ContentType: contentType,
		Data:        append([]byte{}, data...),
		CreatedAt:   r.now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs[b.ID] = b
	return b, nil
}

func (r *memBlobRepo) Get(id uuid.UUID) (Blob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.blobs[id]
	if !ok {
		return Blob{}, fmt.Errorf("repo.BlobRepo.Get: %w", domain.ErrNotFound)
	}
	return b, nil
}

func (r *memBlobRepo) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blobs, id)
}

func (r *memBlobRepo) Resolve(ref string) (Blob, error) {
	raw, ok := strings.CutPrefix(ref, BlobScheme)
	if !ok {
		return Blob{}, fmt.Errorf("repo.BlobRepo.Resolve: %w: not a blob reference", domain.ErrNotFound)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return Blob{}, fmt.Errorf("repo.BlobRepo.Resolve: %w: %v", domain.ErrNotFound, err)
	}
	return r.Get(id)
}

// IsBlobRef reports whether ref points into a BlobRepo.
func IsBlobRef(ref string) bool {
	return strings.HasPrefix(ref, BlobScheme)
}
