package listing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeListingRepo struct {
	listings map[uuid.UUID]Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: map[uuid.UUID]Listing{}}
}

func (r *fakeListingRepo) Create(_ context.Context, l Listing) error {
	r.listings[l.ID] = l
	return nil
}

func (r *fakeListingRepo) GetByID(_ context.Context, id uuid.UUID) (Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return Listing{}, ErrNotFound
	}
	return l, nil
}

func (r *fakeListingRepo) List(_ context.Context, limit, offset int) ([]Listing, error) {
	var res []Listing
	for _, l := range r.listings {
		res = append(res, l)
	}
	return res, nil
}

// stubScraper returns a canned listing and records whether it was called.
type stubScraper struct {
	listing Listing
	called  bool
	gotID   string
}

func (s *stubScraper) ScrapeJob(_ context.Context, jobID string) (Listing, error) {
	s.called = true
	s.gotID = jobID
	return s.listing, nil
}

func TestParseJobID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{name: "job path", url: "https://hiring.cafe/job/abc123", want: "abc123"},
		{name: "base64 id", url: "https://hiring.cafe/job/cGlwZXI=", want: "cGlwZXI="},
		{name: "wrong segment", url: "https://hiring.cafe/jobs/abc123", wantErr: true},
		{name: "missing id", url: "https://hiring.cafe/job/", wantErr: true},
		{name: "no path", url: "https://hiring.cafe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseJobID(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIngestFromURL(t *testing.T) {
	repo := newFakeListingRepo()
	now := time.Now().UTC()
	scraper := &stubScraper{listing: Listing{
		Title:          "Engineer",
		Company:        "Acme",
		ApplicationURL: "https://acme.example/apply",
		Source:         "hiring.cafe",
		ScrapedAt:      now,
		UpdatedAt:      now,
	}}
	svc := NewService(repo, scraper)

	l, err := svc.IngestFromURL(context.Background(), "https://hiring.cafe/job/abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", scraper.gotID)
	assert.Equal(t, "Engineer", l.Title)
	assert.NotEqual(t, uuid.Nil, l.ID)

	stored, err := repo.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", stored.Company)
}

func TestIngestFromURLRejectsBeforeScraping(t *testing.T) {
	repo := newFakeListingRepo()
	scraper := &stubScraper{}
	svc := NewService(repo, scraper)

	_, err := svc.IngestFromURL(context.Background(), "https://hiring.cafe/jobs/abc123")
	assert.ErrorIs(t, err, ErrUnsupportedURL)
	assert.False(t, scraper.called, "unsupported URLs must fail before any network call")
	assert.Empty(t, repo.listings)
}

func TestCreateManual(t *testing.T) {
	repo := newFakeListingRepo()
	svc := NewService(repo, &stubScraper{})

	l, err := svc.CreateManual(context.Background(), ManualInput{
		Title:          "Backend Developer",
		Company:        "Initech",
		ApplicationURL: "https://initech.example/jobs/42",
		Description:    "Go services",
	})
	require.NoError(t, err)
	assert.Empty(t, l.Source, "manual entries carry no scrape source")
	assert.Nil(t, l.PostedAt)
	assert.False(t, l.ScrapedAt.IsZero())

	stored, err := svc.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Initech", stored.Company)
}
