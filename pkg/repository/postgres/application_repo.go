package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/jobagent/pkg/application"
)

// ApplicationRepository implements application.Repository backed by
// PostgreSQL (pgx). The resume/cover-letter references carry plain FKs, so
// deleting a cited document trips a foreign-key violation that the document
// repository translates into its in-use error.
type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) (*ApplicationRepository, error) {
	repo := &ApplicationRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *ApplicationRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS job_applications (
			id UUID PRIMARY KEY,
			candidate_id UUID NOT NULL REFERENCES candidates(id),
			job_listing_id UUID NOT NULL REFERENCES job_listings(id),
			resume_id UUID REFERENCES resumes(id),
			cover_letter_id UUID REFERENCES cover_letters(id),
			status TEXT NOT NULL,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
	`)
	return err
}

func (r *ApplicationRepository) Create(ctx context.Context, a application.Application) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO job_applications (id, candidate_id, job_listing_id, resume_id, cover_letter_id, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)
	`, a.ID, a.CandidateID, a.ListingID, a.ResumeID, a.CoverLetterID, string(a.Status), a.Notes, a.CreatedAt, a.UpdatedAt)
	return err
}

func (r *ApplicationRepository) GetForOwner(ctx context.Context, candidateID, id uuid.UUID) (application.Application, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, candidate_id, job_listing_id, resume_id, cover_letter_id, status, COALESCE(notes, ''), created_at, updated_at
		FROM job_applications WHERE id = $1 AND candidate_id = $2
	`, id, candidateID)
	a, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}
	return a, nil
}

func (r *ApplicationRepository) ListByOwner(ctx context.Context, candidateID uuid.UUID) ([]application.Application, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, candidate_id, job_listing_id, resume_id, cover_letter_id, status, COALESCE(notes, ''), created_at, updated_at
		FROM job_applications WHERE candidate_id = $1
		ORDER BY created_at DESC
	`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []application.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (r *ApplicationRepository) Update(ctx context.Context, a application.Application) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE job_applications SET status = $2, notes = NULLIF($3, ''), updated_at = $4
		WHERE id = $1
	`, a.ID, string(a.Status), a.Notes, a.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return application.ErrNotFound
	}
	return nil
}

func scanApplication(row pgx.Row) (application.Application, error) {
	var a application.Application
	var status string
	var created, updated time.Time
	if err := row.Scan(&a.ID, &a.CandidateID, &a.ListingID, &a.ResumeID, &a.CoverLetterID, &status, &a.Notes, &created, &updated); err != nil {
		return application.Application{}, err
	}
	a.Status = application.Status(status)
	a.CreatedAt = created.UTC()
	a.UpdatedAt = updated.UTC()
	return a, nil
}
