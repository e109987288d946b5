package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/jobagent/pkg/candidate"
)

// CandidateRepository implements candidate.Repository backed by PostgreSQL (pgx).
type CandidateRepository struct {
	pool *pgxpool.Pool
}

func NewCandidateRepository(pool *pgxpool.Pool) (*CandidateRepository, error) {
	repo := &CandidateRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *CandidateRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS candidates (
			id UUID PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			phone TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS candidate_social_links (
			id UUID PRIMARY KEY,
			candidate_id UUID NOT NULL REFERENCES candidates(id),
			name TEXT NOT NULL,
			link TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
	`)
	return err
}

func (r *CandidateRepository) Create(ctx context.Context, c candidate.Candidate) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO candidates (id, first_name, last_name, phone, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.FirstName, c.LastName, c.Phone, strings.ToLower(c.Email), c.PasswordHash, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return candidate.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *CandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (candidate.Candidate, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, phone, email, password_hash, created_at, updated_at
		FROM candidates WHERE id = $1
	`, id)
	return scanCandidate(row)
}

func (r *CandidateRepository) GetByEmail(ctx context.Context, email string) (candidate.Candidate, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, phone, email, password_hash, created_at, updated_at
		FROM candidates WHERE email = $1
	`, strings.ToLower(email))
	return scanCandidate(row)
}

func scanCandidate(row pgx.Row) (candidate.Candidate, error) {
	var c candidate.Candidate
	var created, updated time.Time
	if err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone, &c.Email, &c.PasswordHash, &created, &updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return candidate.Candidate{}, candidate.ErrNotFound
		}
		return candidate.Candidate{}, err
	}
	c.CreatedAt = created.UTC()
	c.UpdatedAt = updated.UTC()
	return c, nil
}

func (r *CandidateRepository) Update(ctx context.Context, c candidate.Candidate) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE candidates
		SET first_name = $2, last_name = $3, phone = $4, email = $5, updated_at = $6
		WHERE id = $1
	`, c.ID, c.FirstName, c.LastName, c.Phone, strings.ToLower(c.Email), c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return candidate.ErrEmailTaken
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return candidate.ErrNotFound
	}
	return nil
}

// Delete removes the candidate and everything it owns in one transaction:
// applications first, then documents with their stored-file rows, social
// links, and finally the candidate itself.
func (r *CandidateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM job_applications WHERE candidate_id = $1`, id); err != nil {
		return err
	}
	// Document rows go first (they reference stored_files), then the files.
	for _, table := range []string{"resumes", "cover_letters"} {
		var fileIDs []uuid.UUID
		rows, err := tx.Query(ctx, `SELECT stored_file_id FROM `+table+` WHERE candidate_id = $1`, id)
		if err != nil {
			return err
		}
		for rows.Next() {
			var fid uuid.UUID
			if err := rows.Scan(&fid); err != nil {
				rows.Close()
				return err
			}
			fileIDs = append(fileIDs, fid)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE candidate_id = $1`, id); err != nil {
			return err
		}
		for _, fid := range fileIDs {
			if _, err := tx.Exec(ctx, `DELETE FROM stored_files WHERE id = $1`, fid); err != nil {
				return err
			}
		}
	}
	if _, err := tx.Exec(ctx, `DELETE FROM candidate_social_links WHERE candidate_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return candidate.ErrNotFound
	}
	return tx.Commit(ctx)
}

func (r *CandidateRepository) ListSocials(ctx context.Context, candidateID uuid.UUID) ([]candidate.SocialLink, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, candidate_id, name, link, created_at, updated_at
		FROM candidate_social_links WHERE candidate_id = $1
		ORDER BY created_at
	`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []candidate.SocialLink
	for rows.Next() {
		l, err := scanSocial(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	return res, rows.Err()
}

func (r *CandidateRepository) GetSocialByName(ctx context.Context, candidateID uuid.UUID, name string) (candidate.SocialLink, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, candidate_id, name, link, created_at, updated_at
		FROM candidate_social_links WHERE candidate_id = $1 AND name = $2
	`, candidateID, name)
	l, err := scanSocial(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return candidate.SocialLink{}, candidate.ErrSocialLinkNotFound
		}
		return candidate.SocialLink{}, err
	}
	return l, nil
}

func scanSocial(row pgx.Row) (candidate.SocialLink, error) {
	var l candidate.SocialLink
	var created, updated time.Time
	if err := row.Scan(&l.ID, &l.CandidateID, &l.Name, &l.Link, &created, &updated); err != nil {
		return candidate.SocialLink{}, err
	}
	l.CreatedAt = created.UTC()
	l.UpdatedAt = updated.UTC()
	return l, nil
}

func (r *CandidateRepository) CreateSocial(ctx context.Context, l candidate.SocialLink) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO candidate_social_links (id, candidate_id, name, link, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, l.ID, l.CandidateID, l.Name, l.Link, l.CreatedAt, l.UpdatedAt)
	return err
}

func (r *CandidateRepository) UpdateSocial(ctx context.Context, l candidate.SocialLink) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE candidate_social_links SET link = $2, updated_at = $3 WHERE id = $1
	`, l.ID, l.Link, l.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return candidate.ErrSocialLinkNotFound
	}
	return nil
}

func (r *CandidateRepository) DeleteSocialForOwner(ctx context.Context, candidateID, socialID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM candidate_social_links WHERE id = $1 AND candidate_id = $2
	`, socialID, candidateID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return candidate.ErrSocialLinkNotFound
	}
	return nil
}
