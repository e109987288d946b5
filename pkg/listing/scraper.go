package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const hiringCafeSource = "hiring.cafe"

// HiringCafeScraper reads listings out of the JSON payload hiring.cafe's
// single-page app embeds per job. The payload lives under a Next.js data
// route keyed by a build id that rotates on every upstream deploy, so the
// build id comes in as configuration.
type HiringCafeScraper struct {
	baseURL string
	buildID string
	timeout time.Duration

	once   sync.Once
	client *http.Client
}

func NewHiringCafeScraper(baseURL, buildID string, timeout time.Duration) *HiringCafeScraper {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HiringCafeScraper{baseURL: baseURL, buildID: buildID, timeout: timeout}
}

// httpClient is created lazily on first use and shared across calls.
// http.Client is safe for concurrent reuse and is never mutated afterwards.
func (s *HiringCafeScraper) httpClient() *http.Client {
	s.once.Do(func() {
		s.client = &http.Client{Timeout: s.timeout}
	})
	return s.client
}

// scrapePayload mirrors the nested paths of the upstream document. Pointer
// fields distinguish absent keys from empty values.
type scrapePayload struct {
	PageProps struct {
		Job *struct {
			ApplyURL       *string `json:"apply_url"`
			JobInformation *struct {
				Description *string `json:"description"`
			} `json:"job_information"`
			Processed *struct {
				CoreJobTitle         *string `json:"core_job_title"`
				CompanyName          *string `json:"company_name"`
				EstimatedPublishDate *string `json:"estimated_publish_date"`
			} `json:"v5_processed_job_data"`
		} `json:"job"`
	} `json:"pageProps"`
}

func (s *HiringCafeScraper) ScrapeJob(ctx context.Context, jobID string) (Listing, error) {
	endpoint := fmt.Sprintf("%s/_next/data/%s/job/%s.json", s.baseURL, s.buildID, url.QueryEscape(jobID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Listing{}, err
	}
	resp, err := s.httpClient().Do(req)
	if err != nil {
		return Listing{}, fmt.Errorf("fetch job %s: %w", jobID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Listing{}, fmt.Errorf("read job %s response: %w", jobID, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Listing{}, fmt.Errorf("%w: job %s: unexpected status %d", ErrMalformedResponse, jobID, resp.StatusCode)
	}

	var payload scrapePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return Listing{}, s.malformed(jobID, body, "not a JSON document")
	}

	job := payload.PageProps.Job
	if job == nil {
		return Listing{}, s.malformed(jobID, body, "pageProps.job missing")
	}
	p := job.Processed
	switch {
	case p == nil:
		return Listing{}, s.malformed(jobID, body, "v5_processed_job_data missing")
	case p.CoreJobTitle == nil:
		return Listing{}, s.malformed(jobID, body, "core_job_title missing")
	case p.CompanyName == nil:
		return Listing{}, s.malformed(jobID, body, "company_name missing")
	case p.EstimatedPublishDate == nil:
		return Listing{}, s.malformed(jobID, body, "estimated_publish_date missing")
	case job.ApplyURL == nil:
		return Listing{}, s.malformed(jobID, body, "apply_url missing")
	case job.JobInformation == nil || job.JobInformation.Description == nil:
		return Listing{}, s.malformed(jobID, body, "job_information.description missing")
	}

	postedAt, err := time.Parse(time.RFC3339, *p.EstimatedPublishDate)
	if err != nil {
		return Listing{}, s.malformed(jobID, body, "estimated_publish_date not a timestamp")
	}

	now := time.Now().UTC()
	return Listing{
		Title:          *p.CoreJobTitle,
		Company:        *p.CompanyName,
		ApplicationURL: *job.ApplyURL,
		Source:         hiringCafeSource,
		Description:    *job.JobInformation.Description,
		PostedAt:       &postedAt,
		ScrapedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// malformed logs the full payload for diagnosis before surfacing the typed
// failure; a rotated build id usually shows up here first.
func (s *HiringCafeScraper) malformed(jobID string, body []byte, detail string) error {
	log.Printf("scrape job %s: response format not as expected (%s)\n%s", jobID, detail, body)
	return fmt.Errorf("%w: job %s: %s", ErrMalformedResponse, jobID, detail)
}
