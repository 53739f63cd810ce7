package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/Coco120903/batinos-garden-resort/internal/model"
)

// MediaRepo persists references to uploaded images.  The binaries
// themselves live on external storage; only URLs are tracked here.
type MediaRepo struct{ DB *sql.DB }

func NewMediaRepo(db *sql.DB) *MediaRepo { return &MediaRepo{DB: db} }

// Create registers an asset URL.  Registering the same URL twice
// yields ErrDuplicate.
func (r *MediaRepo) Create(ctx context.Context, a *model.MediaAsset) (uint64, error) {
	tags, err := json.Marshal(a.Tags)
	if err != nil {
		return 0, err
	}
	res, err := q(ctx, r.DB).ExecContext(ctx,
		`INSERT INTO media_assets (url, title, tags, created_by) VALUES (?,?,?,?)`,
		a.URL, a.Title, tags, a.CreatedBy)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	a.ID = uint64(id)
	return a.ID, nil
}

// List returns all assets, newest first.
func (r *MediaRepo) List(ctx context.Context) ([]model.MediaAsset, error) {
	rows, err := q(ctx, r.DB).QueryContext(ctx,
		`SELECT id, url, title, tags, created_by, created_at
		 FROM media_assets ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.MediaAsset
	for rows.Next() {
		var (
			a    model.MediaAsset
			tags []byte
		)
		if err := rows.Scan(&a.ID, &a.URL, &a.Title, &tags, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		if len(tags) > 0 {
			if err := json.Unmarshal(tags, &a.Tags); err != nil {
				return nil, err
			}
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Delete removes an asset reference.
func (r *MediaRepo) Delete(ctx context.Context, id uint64) error {
	res, err := q(ctx, r.DB).ExecContext(ctx, `DELETE FROM media_assets WHERE id=?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}
