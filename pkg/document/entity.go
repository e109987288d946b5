package document

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrNameTaken       = errors.New("document name already in use")
	ErrInvalidFileType = errors.New("invalid file type")
	// ErrInUse is returned when a document is still referenced by an
	// application and therefore cannot be deleted.
	ErrInUse = errors.New("document is referenced by an application")
)

// Kind selects which of the two same-shaped document tables a record
// lives in.
type Kind string

const (
	KindResume      Kind = "resume"
	KindCoverLetter Kind = "cover_letter"
)

// StoredFile is the object-storage-level record backing a Document. It is
// never exposed directly; callers always address it through the owning
// Document.
type StoredFile struct {
	ID          uuid.UUID `json:"-"`
	Key         string    `json:"-"`
	Bucket      string    `json:"-"`
	ContentType string    `json:"contentType"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// Document is a named, candidate-owned file (resume or cover letter).
// Names are unique per (candidate, kind). TextContent is filled for
// resumes only.
type Document struct {
	ID          uuid.UUID  `json:"id"`
	CandidateID uuid.UUID  `json:"-"`
	Kind        Kind       `json:"-"`
	Name        string     `json:"name"`
	TextContent string     `json:"-"`
	StoredFile  StoredFile `json:"file"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Repository persists documents together with their stored-file records.
type Repository interface {
	// Create inserts the stored-file row and the document row in one
	// transaction.
	Create(ctx context.Context, d Document) error
	GetForOwner(ctx context.Context, candidateID uuid.UUID, kind Kind, id uuid.UUID) (Document, error)
	GetByName(ctx context.Context, candidateID uuid.UUID, kind Kind, name string) (Document, error)
	ListByOwner(ctx context.Context, candidateID uuid.UUID, kind Kind) ([]Document, error)
	// DeleteForOwner removes the document and its stored-file row in one
	// transaction and returns the deleted meta for object cleanup. Returns
	// ErrInUse while an application still references the document.
	DeleteForOwner(ctx context.Context, candidateID uuid.UUID, kind Kind, id uuid.UUID) (Document, error)
}

// ObjectStorage is the gateway port to the bucket holding raw file bytes.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	PresignedGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Remove(ctx context.Context, key string) error
	Bucket() string
}
