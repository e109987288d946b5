package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("job application not found")
	ErrInvalidStatus = errors.New("invalid application status")
)

// Status enumerates the lifecycle of an application. No transition rules
// are enforced at the service layer; the enumeration documents the contract
// for future mutators.
type Status string

const (
	StatusPending      Status = "pending"
	StatusApplying     Status = "applying"
	StatusApplied      Status = "applied"
	StatusInterviewing Status = "interviewing"
	StatusRejected     Status = "rejected"
	StatusOffered      Status = "offered"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApplying, StatusApplied, StatusInterviewing, StatusRejected, StatusOffered:
		return true
	}
	return false
}

// Application links a candidate's submission to a job listing, optionally
// citing a resume and/or cover letter owned by the same candidate. Status
// and notes are the only fields mutable after creation.
type Application struct {
	ID            uuid.UUID  `json:"id"`
	CandidateID   uuid.UUID  `json:"-"`
	ListingID     uuid.UUID  `json:"jobListingId"`
	ResumeID      *uuid.UUID `json:"resumeId,omitempty"`
	CoverLetterID *uuid.UUID `json:"coverLetterId,omitempty"`
	Status        Status     `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Repository is the persistence port for applications.
type Repository interface {
	Create(ctx context.Context, a Application) error
	GetForOwner(ctx context.Context, candidateID, id uuid.UUID) (Application, error)
	ListByOwner(ctx context.Context, candidateID uuid.UUID) ([]Application, error)
	Update(ctx context.Context, a Application) error
}
