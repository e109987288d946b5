package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/jobagent/pkg/candidate"
	"github.com/artem13815/jobagent/pkg/document"
	"github.com/artem13815/jobagent/pkg/listing"
)

// UseCase creates and mutates job applications. Every foreign reference is
// resolved and ownership-checked before anything is written.
type UseCase interface {
	Create(ctx context.Context, candidateID uuid.UUID, in CreateInput) (Application, error)
	GetForCandidate(ctx context.Context, candidateID, id uuid.UUID) (Application, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]Application, error)
	Update(ctx context.Context, candidateID, id uuid.UUID, in UpdateInput) (Application, error)
}

type CreateInput struct {
	ListingID     uuid.UUID
	ResumeID      *uuid.UUID
	CoverLetterID *uuid.UUID
	Notes         string
}

// UpdateInput carries the two post-creation mutable fields; nil leaves a
// field untouched.
type UpdateInput struct {
	Status *Status
	Notes  *string
}

type service struct {
	repo       Repository
	candidates candidate.Repository
	listings   listing.Repository
	documents  document.Repository
}

// NewService returns the default implementation of UseCase.
func NewService(repo Repository, candidates candidate.Repository, listings listing.Repository, documents document.Repository) UseCase {
	return &service{repo: repo, candidates: candidates, listings: listings, documents: documents}
}

func (s *service) Create(ctx context.Context, candidateID uuid.UUID, in CreateInput) (Application, error) {
	if _, err := s.candidates.GetByID(ctx, candidateID); err != nil {
		return Application{}, err
	}
	if _, err := s.listings.GetByID(ctx, in.ListingID); err != nil {
		return Application{}, err
	}
	// Cited documents must belong to the applicant; a document owned by a
	// different candidate answers the same as a missing one.
	if in.ResumeID != nil {
		if _, err := s.documents.GetForOwner(ctx, candidateID, document.KindResume, *in.ResumeID); err != nil {
			return Application{}, fmt.Errorf("resume %s: %w", *in.ResumeID, err)
		}
	}
	if in.CoverLetterID != nil {
		if _, err := s.documents.GetForOwner(ctx, candidateID, document.KindCoverLetter, *in.CoverLetterID); err != nil {
			return Application{}, fmt.Errorf("cover letter %s: %w", *in.CoverLetterID, err)
		}
	}

	now := time.Now().UTC()
	a := Application{
		ID:            uuid.New(),
		CandidateID:   candidateID,
		ListingID:     in.ListingID,
		ResumeID:      in.ResumeID,
		CoverLetterID: in.CoverLetterID,
		Status:        StatusPending,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Application{}, err
	}
	return a, nil
}

func (s *service) GetForCandidate(ctx context.Context, candidateID, id uuid.UUID) (Application, error) {
	return s.repo.GetForOwner(ctx, candidateID, id)
}

func (s *service) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]Application, error) {
	return s.repo.ListByOwner(ctx, candidateID)
}

func (s *service) Update(ctx context.Context, candidateID, id uuid.UUID, in UpdateInput) (Application, error) {
	a, err := s.repo.GetForOwner(ctx, candidateID, id)
	if err != nil {
		return Application{}, err
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return Application{}, fmt.Errorf("%w: %q", ErrInvalidStatus, *in.Status)
		}
		a.Status = *in.Status
	}
	if in.Notes != nil {
		a.Notes = *in.Notes
	}
	a.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, a); err != nil {
		return Application{}, err
	}
	return a, nil
}
