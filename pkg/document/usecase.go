package document

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/jobagent/pkg/candidate"
)

// DefaultPresignTTL bounds how long a signed download link stays valid when
// the caller does not ask for a specific window.
const DefaultPresignTTL = 60 * time.Second

const pdfContentType = "application/pdf"

// UseCase describes per-candidate document management: PDF uploads backed by
// object storage, listing, time-limited download links and deletion.
type UseCase interface {
	Upload(ctx context.Context, candidateID uuid.UUID, kind Kind, in UploadInput) (Document, error)
	List(ctx context.Context, candidateID uuid.UUID, kind Kind) ([]Document, error)
	PresignedURL(ctx context.Context, candidateID uuid.UUID, kind Kind, id uuid.UUID, ttl time.Duration) (Document, string, error)
	Delete(ctx context.Context, candidateID uuid.UUID, kind Kind, id uuid.UUID) error
}

type UploadInput struct {
	Name        string
	Data        []byte
	ContentType string
}

type service struct {
	repo       Repository
	candidates candidate.Repository
	storage    ObjectStorage
	extractor  TextExtractor
}

// NewService returns the default implementation of UseCase.
func NewService(repo Repository, candidates candidate.Repository, storage ObjectStorage, extractor TextExtractor) UseCase {
	return &service{repo: repo, candidates: candidates, storage: storage, extractor: extractor}
}

func (s *service) Upload(ctx context.Context, candidateID uuid.UUID, kind Kind, in UploadInput) (Document, error) {
	if in.ContentType != pdfContentType {
		return Document{}, fmt.Errorf("%w: %q, only %s is supported", ErrInvalidFileType, in.ContentType, pdfContentType)
	}
	if _, err := s.candidates.GetByID(ctx, candidateID); err != nil {
		return Document{}, err
	}
	if _, err := s.repo.GetByName(ctx, candidateID, kind, in.Name); err == nil {
		return Document{}, fmt.Errorf("%w: %q", ErrNameTaken, in.Name)
	}

	// Resume text is extracted before anything is written: if extraction
	// fails the upload fails entirely, so no document ever exists with
	// missing text.
	var text string
	if kind == KindResume {
		var err error
		text, err = s.extractor.Extract(ctx, in.Data)
		if err != nil {
			return Document{}, fmt.Errorf("extract text: %w", err)
		}
	}

	key := uuid.New().String()
	if err := s.storage.Put(ctx, key, in.Data, in.ContentType); err != nil {
		return Document{}, fmt.Errorf("store file: %w", err)
	}

	now := time.Now().UTC()
	d := Document{
		ID:          uuid.New(),
		CandidateID: candidateID,
		Kind:        kind,
		Name:        in.Name,
		TextContent: text,
		StoredFile: StoredFile{
			ID:          uuid.New(),
			Key:         key,
			Bucket:      s.storage.Bucket(),
			ContentType: in.ContentType,
			UploadedAt:  now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		// The object was written before the relational insert; clean it up
		// best-effort so it does not dangle.
		if rmErr := s.storage.Remove(ctx, key); rmErr != nil {
			log.Printf("orphaned object %s/%s left for reconciliation: %v", s.storage.Bucket(), key, rmErr)
		}
		return Document{}, err
	}
	return d, nil
}

func (s *service) List(ctx context.Context, candidateID uuid.UUID, kind Kind) ([]Document, error) {
	return s.repo.ListByOwner(ctx, candidateID, kind)
}

func (s *service) PresignedURL(ctx context.Context, candidateID uuid.UUID, kind Kind, id uuid.UUID, ttl time.Duration) (Document, string, error) {
	if ttl <= 0 {
		ttl = DefaultPresignTTL
	}
	d, err := s.repo.GetForOwner(ctx, candidateID, kind, id)
	if err != nil {
		return Document{}, "", err
	}
	url, err := s.storage.PresignedGet(ctx, d.StoredFile.Key, ttl)
	if err != nil {
		return Document{}, "", err
	}
	return d, url, nil
}

func (s *service) Delete(ctx context.Context, candidateID uuid.UUID, kind Kind, id uuid.UUID) error {
	d, err := s.repo.DeleteForOwner(ctx, candidateID, kind, id)
	if err != nil {
		return err
	}
	if err := s.storage.Remove(ctx, d.StoredFile.Key); err != nil {
		log.Printf("orphaned object %s/%s left for reconciliation: %v", d.StoredFile.Bucket, d.StoredFile.Key, err)
	}
	return nil
}
