package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/jobagent/pkg/document"
)

// DocumentRepository persists resumes and cover letters together with their
// stored-file records. The two kinds live in separate, same-shaped tables;
// only resumes carry extracted text.
type DocumentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) (*DocumentRepository, error) {
	repo := &DocumentRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *DocumentRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS stored_files (
			id UUID PRIMARY KEY,
			key TEXT NOT NULL UNIQUE,
			bucket TEXT NOT NULL,
			content_type TEXT,
			uploaded_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS resumes (
			id UUID PRIMARY KEY,
			candidate_id UUID NOT NULL REFERENCES candidates(id),
			stored_file_id UUID NOT NULL REFERENCES stored_files(id),
			name TEXT NOT NULL,
			text_content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS cover_letters (
			id UUID PRIMARY KEY,
			candidate_id UUID NOT NULL REFERENCES candidates(id),
			stored_file_id UUID NOT NULL REFERENCES stored_files(id),
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
	`)
	return err
}

func tableFor(kind document.Kind) (string, error) {
	switch kind {
	case document.KindResume:
		return "resumes", nil
	case document.KindCoverLetter:
		return "cover_letters", nil
	}
	return "", fmt.Errorf("unknown document kind %q", kind)
}

// Create inserts the stored-file row and the document row in one
// transaction so a failed insert leaves no half-written pair behind.
func (r *DocumentRepository) Create(ctx context.Context, d document.Document) error {
	table, err := tableFor(d.Kind)
	if err != nil {
		return err
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO stored_files (id, key, bucket, content_type, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
	`, d.StoredFile.ID, d.StoredFile.Key, d.StoredFile.Bucket, d.StoredFile.ContentType, d.StoredFile.UploadedAt); err != nil {
		return err
	}
	if d.Kind == document.KindResume {
		_, err = tx.Exec(ctx, `
			INSERT INTO resumes (id, candidate_id, stored_file_id, name, text_content, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, d.ID, d.CandidateID, d.StoredFile.ID, d.Name, d.TextContent, d.CreatedAt, d.UpdatedAt)
	} else {
		_, err = tx.Exec(ctx, `
			INSERT INTO `+table+` (id, candidate_id, stored_file_id, name, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, d.ID, d.CandidateID, d.StoredFile.ID, d.Name, d.CreatedAt, d.UpdatedAt)
	}
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *DocumentRepository) selectColumns(kind document.Kind) string {
	text := "''"
	if kind == document.KindResume {
		text = "d.text_content"
	}
	return fmt.Sprintf(`
		d.id, d.candidate_id, d.name, %s,
		f.id, f.key, f.bucket, COALESCE(f.content_type, ''), f.uploaded_at,
		d.created_at, d.updated_at
	`, text)
}

func (r *DocumentRepository) GetForOwner(ctx context.Context, candidateID uuid.UUID, kind document.Kind, id uuid.UUID) (document.Document, error) {
	table, err := tableFor(kind)
	if err != nil {
		return document.Document{}, err
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+r.selectColumns(kind)+`
		FROM `+table+` d JOIN stored_files f ON f.id = d.stored_file_id
		WHERE d.id = $1 AND d.candidate_id = $2
	`, id, candidateID)
	return scanDocument(row, kind)
}

func (r *DocumentRepository) GetByName(ctx context.Context, candidateID uuid.UUID, kind document.Kind, name string) (document.Document, error) {
	table, err := tableFor(kind)
	if err != nil {
		return document.Document{}, err
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+r.selectColumns(kind)+`
		FROM `+table+` d JOIN stored_files f ON f.id = d.stored_file_id
		WHERE d.candidate_id = $1 AND d.name = $2
	`, candidateID, name)
	return scanDocument(row, kind)
}

func (r *DocumentRepository) ListByOwner(ctx context.Context, candidateID uuid.UUID, kind document.Kind) ([]document.Document, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+r.selectColumns(kind)+`
		FROM `+table+` d JOIN stored_files f ON f.id = d.stored_file_id
		WHERE d.candidate_id = $1
		ORDER BY d.created_at DESC
	`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []document.Document
	for rows.Next() {
		d, err := scanDocument(rows, kind)
		if err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

func scanDocument(row pgx.Row, kind document.Kind) (document.Document, error) {
	var d document.Document
	var uploaded, created, updated time.Time
	if err := row.Scan(
		&d.ID, &d.CandidateID, &d.Name, &d.TextContent,
		&d.StoredFile.ID, &d.StoredFile.Key, &d.StoredFile.Bucket, &d.StoredFile.ContentType, &uploaded,
		&created, &updated,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Document{}, document.ErrNotFound
		}
		return document.Document{}, err
	}
	d.Kind = kind
	d.StoredFile.UploadedAt = uploaded.UTC()
	d.CreatedAt = created.UTC()
	d.UpdatedAt = updated.UTC()
	return d, nil
}

// DeleteForOwner removes the document and its stored-file row in one
// transaction, returning the deleted meta so the caller can clean up the
// object. Applications referencing the document block deletion.
func (r *DocumentRepository) DeleteForOwner(ctx context.Context, candidateID uuid.UUID, kind document.Kind, id uuid.UUID) (document.Document, error) {
	d, err := r.GetForOwner(ctx, candidateID, kind, id)
	if err != nil {
		return document.Document{}, err
	}
	table, _ := tableFor(kind)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return document.Document{}, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1 AND candidate_id = $2`, id, candidateID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return document.Document{}, document.ErrInUse
		}
		return document.Document{}, err
	}
	if tag.RowsAffected() == 0 {
		return document.Document{}, document.ErrNotFound
	}
	if _, err := tx.Exec(ctx, `DELETE FROM stored_files WHERE id = $1`, d.StoredFile.ID); err != nil {
		return document.Document{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return document.Document{}, err
	}
	return d, nil
}
