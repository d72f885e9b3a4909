package analyses

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis row.
func (r *PGRepo) Create(ctx context.Context, meta Meta) error {
	const query = `
INSERT INTO analyses (
    id,
    owner_id,
    file_name,
    image_width,
    image_height,
    image_format,
    image_size_bytes,
    summary,
    score,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		meta.ID,
		meta.OwnerID,
		meta.FileName,
		meta.ImageMeta.Width,
		meta.ImageMeta.Height,
		meta.ImageMeta.Format,
		meta.ImageMeta.Size,
		meta.Summary,
		meta.Score,
		meta.CreatedAt,
	)
	return err
}

// GetByID fetches an analysis by ID for an owner.
func (r *PGRepo) GetByID(ctx context.Context, ownerID, analysisID string) (Meta, error) {
	const query = `
SELECT id, owner_id, file_name, image_width, image_height, image_format, image_size_bytes, summary, score, created_at
FROM analyses
WHERE owner_id = $1 AND id = $2 AND deleted_at IS NULL
LIMIT 1`
	var meta Meta
	err := r.DB.QueryRowContext(ctx, query, ownerID, analysisID).Scan(
		&meta.ID,
		&meta.OwnerID,
		&meta.FileName,
		&meta.ImageMeta.Width,
		&meta.ImageMeta.Height,
		&meta.ImageMeta.Format,
		&meta.ImageMeta.Size,
		&meta.Summary,
		&meta.Score,
		&meta.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Meta{}, ErrNotFound
		}
		return Meta{}, err
	}
	return meta, nil
}

// ListByOwner lists analyses ordered newest-first.
func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Meta, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, owner_id, file_name, image_width, image_height, image_format, image_size_bytes, summary, score, created_at
FROM analyses
WHERE owner_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Meta
	for rows.Next() {
		var meta Meta
		if err := rows.Scan(
			&meta.ID,
			&meta.OwnerID,
			&meta.FileName,
			&meta.ImageMeta.Width,
			&meta.ImageMeta.Height,
			&meta.ImageMeta.Format,
			&meta.ImageMeta.Size,
			&meta.Summary,
			&meta.Score,
			&meta.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, meta)
	}
	return out, rows.Err()
}

// Delete soft-deletes an analysis for an owner.
func (r *PGRepo) Delete(ctx context.Context, ownerID, analysisID string) error {
	const query = `
UPDATE analyses
SET deleted_at = $1
WHERE owner_id = $2 AND id = $3 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, time.Now().UTC(), ownerID, analysisID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Touch refreshes the summary and score after a record update.
func (r *PGRepo) Touch(ctx context.Context, ownerID, analysisID string, summary string, score float64) error {
	const query = `
UPDATE analyses
SET summary = $1, score = $2
WHERE owner_id = $3 AND id = $4 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, summary, score, ownerID, analysisID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
