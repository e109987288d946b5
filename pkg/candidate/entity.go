package candidate

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors used by repository/use cases
var (
	ErrNotFound           = errors.New("candidate not found")
	ErrSocialLinkNotFound = errors.New("social link not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Candidate is the core identity principal of the system.
type Candidate struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FullName is derived, never stored.
func (c Candidate) FullName() string {
	return c.FirstName + " " + c.LastName
}

// SocialLink belongs to exactly one candidate. At most one link exists per
// (candidate, name) pair; the uniqueness is enforced by the use case so
// upserts can overwrite in place.
type SocialLink struct {
	ID          uuid.UUID `json:"id"`
	CandidateID uuid.UUID `json:"-"`
	Name        string    `json:"name"`
	Link        string    `json:"link"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Repository abstracts persistence concerns from the domain layer.
type Repository interface {
	Create(ctx context.Context, c Candidate) error
	GetByID(ctx context.Context, id uuid.UUID) (Candidate, error)
	GetByEmail(ctx context.Context, email string) (Candidate, error)
	Update(ctx context.Context, c Candidate) error
	// Delete removes the candidate and everything it owns (social links,
	// documents, applications) in one transaction.
	Delete(ctx context.Context, id uuid.UUID) error

	ListSocials(ctx context.Context, candidateID uuid.UUID) ([]SocialLink, error)
	GetSocialByName(ctx context.Context, candidateID uuid.UUID, name string) (SocialLink, error)
	CreateSocial(ctx context.Context, l SocialLink) error
	UpdateSocial(ctx context.Context, l SocialLink) error
	DeleteSocialForOwner(ctx context.Context, candidateID, socialID uuid.UUID) error
}
