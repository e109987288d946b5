package listing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("job listing not found")
	// ErrUnsupportedURL means the public URL does not carry the expected
	// /job/<id> path segment.
	ErrUnsupportedURL = errors.New("unsupported job URL")
	// ErrMalformedResponse means the upstream JSON no longer matches the
	// schema the configured build id promises.
	ErrMalformedResponse = errors.New("malformed upstream response")
)

// Listing is a normalized job posting, either scraped from an external
// source or entered manually. Immutable after creation except timestamps.
type Listing struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	ApplicationURL string     `json:"applicationUrl"`
	Source         string     `json:"source,omitempty"`
	Description    string     `json:"description,omitempty"`
	PostedAt       *time.Time `json:"postedAt,omitempty"`
	ScrapedAt      time.Time  `json:"scrapedAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Repository is the persistence port for listings.
type Repository interface {
	Create(ctx context.Context, l Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (Listing, error)
	List(ctx context.Context, limit, offset int) ([]Listing, error)
}

// Scraper fetches a single listing from a source-specific job id.
type Scraper interface {
	ScrapeJob(ctx context.Context, jobID string) (Listing, error)
}
