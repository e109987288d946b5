package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/jobagent/pkg/listing"
)

// ListingRepository implements listing.Repository backed by PostgreSQL (pgx).
type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) (*ListingRepository, error) {
	repo := &ListingRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *ListingRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS job_listings (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			company TEXT NOT NULL,
			application_url TEXT NOT NULL,
			source TEXT,
			description TEXT,
			posted_at TIMESTAMPTZ,
			scraped_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
	`)
	return err
}

func (r *ListingRepository) Create(ctx context.Context, l listing.Listing) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO job_listings (id, title, company, application_url, source, description, posted_at, scraped_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9)
	`, l.ID, l.Title, l.Company, l.ApplicationURL, l.Source, l.Description, l.PostedAt, l.ScrapedAt, l.UpdatedAt)
	return err
}

func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (listing.Listing, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, company, application_url, COALESCE(source, ''), COALESCE(description, ''), posted_at, scraped_at, updated_at
		FROM job_listings WHERE id = $1
	`, id)
	l, err := scanListing(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return listing.Listing{}, listing.ErrNotFound
		}
		return listing.Listing{}, err
	}
	return l, nil
}

func (r *ListingRepository) List(ctx context.Context, limit, offset int) ([]listing.Listing, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, company, application_url, COALESCE(source, ''), COALESCE(description, ''), posted_at, scraped_at, updated_at
		FROM job_listings
		ORDER BY scraped_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []listing.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	return res, rows.Err()
}

func scanListing(row pgx.Row) (listing.Listing, error) {
	var l listing.Listing
	var posted sql.NullTime
	var scraped, updated time.Time
	if err := row.Scan(&l.ID, &l.Title, &l.Company, &l.ApplicationURL, &l.Source, &l.Description, &posted, &scraped, &updated); err != nil {
		return listing.Listing{}, err
	}
	if posted.Valid {
		t := posted.Time.UTC()
		l.PostedAt = &t
	}
	l.ScrapedAt = scraped.UTC()
	l.UpdatedAt = updated.UTC()
	return l, nil
}
