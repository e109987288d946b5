package candidate

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UseCase describes the candidate directory behavior: registration,
// credential verification, profile updates and the social-link collection.
type UseCase interface {
	Register(ctx context.Context, in RegisterInput) (Candidate, error)
	Login(ctx context.Context, email, password string) (Candidate, error)
	GetByID(ctx context.Context, id uuid.UUID) (Candidate, error)
	UpdatePersonalInfo(ctx context.Context, id uuid.UUID, in UpdateInput) (Candidate, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListSocialLinks(ctx context.Context, candidateID uuid.UUID) ([]SocialLink, error)
	UpsertSocialLink(ctx context.Context, candidateID uuid.UUID, name, link string) (SocialLink, error)
	DeleteSocialLink(ctx context.Context, candidateID, socialID uuid.UUID) error
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Password  string
}

// UpdateInput carries partial profile updates. A nil field is left
// untouched; an empty string is written as-is.
type UpdateInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Email     *string
}

type service struct {
	repo Repository
}

// NewService returns the default implementation of UseCase.
func NewService(repo Repository) UseCase { return &service{repo: repo} }

func (s *service) Register(ctx context.Context, in RegisterInput) (Candidate, error) {
	// If the email is taken, fail fast (best-effort check; the unique
	// constraint backs it up under concurrency).
	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return Candidate{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Candidate{}, err
	}

	now := time.Now().UTC()
	c := Candidate{
		ID:           uuid.New(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Email:        strings.ToLower(in.Email),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Candidate{}, err
	}
	return c, nil
}

func (s *service) Login(ctx context.Context, email, password string) (Candidate, error) {
	// Unknown email and wrong password answer identically so callers cannot
	// probe which emails are registered.
	c, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return Candidate{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) != nil {
		return Candidate{}, ErrInvalidCredentials
	}
	return c, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (Candidate, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdatePersonalInfo(ctx context.Context, id uuid.UUID, in UpdateInput) (Candidate, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Candidate{}, err
	}
	if in.FirstName != nil {
		c.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		c.LastName = *in.LastName
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Email != nil {
		c.Email = strings.ToLower(*in.Email)
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return Candidate{}, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) ListSocialLinks(ctx context.Context, candidateID uuid.UUID) ([]SocialLink, error) {
	if _, err := s.repo.GetByID(ctx, candidateID); err != nil {
		return nil, err
	}
	return s.repo.ListSocials(ctx, candidateID)
}

func (s *service) UpsertSocialLink(ctx context.Context, candidateID uuid.UUID, name, link string) (SocialLink, error) {
	if _, err := s.repo.GetByID(ctx, candidateID); err != nil {
		return SocialLink{}, err
	}

	// Name matching is exact and case-sensitive.
	existing, err := s.repo.GetSocialByName(ctx, candidateID, name)
	if err == nil {
		existing.Link = link
		existing.UpdatedAt = time.Now().UTC()
		if err := s.repo.UpdateSocial(ctx, existing); err != nil {
			return SocialLink{}, err
		}
		return existing, nil
	}

	now := time.Now().UTC()
	l := SocialLink{
		ID:          uuid.New(),
		CandidateID: candidateID,
		Name:        name,
		Link:        link,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateSocial(ctx, l); err != nil {
		return SocialLink{}, err
	}
	return l, nil
}

func (s *service) DeleteSocialLink(ctx context.Context, candidateID, socialID uuid.UUID) error {
	return s.repo.DeleteSocialForOwner(ctx, candidateID, socialID)
}
