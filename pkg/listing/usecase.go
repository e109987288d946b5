package listing

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UseCase covers listing ingestion: scraping a posting from a public URL
// and manual entry.
type UseCase interface {
	IngestFromURL(ctx context.Context, jobURL string) (Listing, error)
	CreateManual(ctx context.Context, in ManualInput) (Listing, error)
	GetByID(ctx context.Context, id uuid.UUID) (Listing, error)
	List(ctx context.Context, limit, offset int) ([]Listing, error)
}

type ManualInput struct {
	Title          string
	Company        string
	ApplicationURL string
	Description    string
}

type service struct {
	repo    Repository
	scraper Scraper
}

// NewService returns the default implementation of UseCase.
func NewService(repo Repository, scraper Scraper) UseCase {
	return &service{repo: repo, scraper: scraper}
}

func (s *service) IngestFromURL(ctx context.Context, jobURL string) (Listing, error) {
	jobID, err := parseJobID(jobURL)
	if err != nil {
		return Listing{}, err
	}
	l, err := s.scraper.ScrapeJob(ctx, jobID)
	if err != nil {
		return Listing{}, err
	}
	l.ID = uuid.New()
	if err := s.repo.Create(ctx, l); err != nil {
		return Listing{}, err
	}
	return l, nil
}

func (s *service) CreateManual(ctx context.Context, in ManualInput) (Listing, error) {
	now := time.Now().UTC()
	l := Listing{
		ID:             uuid.New(),
		Title:          in.Title,
		Company:        in.Company,
		ApplicationURL: in.ApplicationURL,
		Description:    in.Description,
		ScrapedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return Listing{}, err
	}
	return l, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (Listing, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, limit, offset int) ([]Listing, error) {
	return s.repo.List(ctx, limit, offset)
}

// parseJobID pulls the source-specific job id out of a shared listing URL.
// Only /job/<id> paths are supported; anything else fails before any
// network call happens.
func parseJobID(jobURL string) (string, error) {
	parsed, err := url.Parse(jobURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedURL, jobURL)
	}
	if !strings.HasPrefix(parsed.Path, "/job/") {
		return "", fmt.Errorf("%w: %s (expected a /job/<id> link)", ErrUnsupportedURL, jobURL)
	}
	jobID := strings.TrimPrefix(parsed.Path, "/job/")
	if jobID == "" {
		return "", fmt.Errorf("%w: %s (missing job id)", ErrUnsupportedURL, jobURL)
	}
	return jobID, nil
}
