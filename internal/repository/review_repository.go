package repository

import (
	"context"
	"database/sql"

	"github.com/Coco120903/batinos-garden-resort/internal/model"
)

// ReviewRepo persists guest reviews.
type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// Create inserts an unapproved review and returns its id.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) (uint64, error) {
	res, err := q(ctx, r.DB).ExecContext(ctx,
		`INSERT INTO reviews (user_id, name, rating, comment, is_approved) VALUES (?,?,?,?,0)`,
		rv.UserID, rv.Name, rv.Rating, rv.Comment)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	rv.ID = uint64(id)
	return rv.ID, nil
}

// ListApproved returns up to limit publicly visible reviews, newest
// first.
func (r *ReviewRepo) ListApproved(ctx context.Context, limit int) ([]model.Review, error) {
	if limit <= 0 || limit > 30 {
		limit = 30
	}
	rows, err := q(ctx, r.DB).QueryContext(ctx,
		`SELECT id, user_id, name, rating, comment, is_approved, COALESCE(approved_by, 0), created_at
		 FROM reviews WHERE is_approved=1 ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReviews(rows, false)
}

// ListAll returns every review with the author email joined in, for
// the admin moderation page.
func (r *ReviewRepo) ListAll(ctx context.Context) ([]model.Review, error) {
	rows, err := q(ctx, r.DB).QueryContext(ctx,
		`SELECT r.id, r.user_id, r.name, r.rating, r.comment, r.is_approved,
			COALESCE(r.approved_by, 0), r.created_at, u.email
		 FROM reviews r JOIN users u ON u.id = r.user_id
		 ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReviews(rows, true)
}

func collectReviews(rows *sql.Rows, withEmail bool) ([]model.Review, error) {
	var list []model.Review
	for rows.Next() {
		var rv model.Review
		dest := []any{&rv.ID, &rv.UserID, &rv.Name, &rv.Rating, &rv.Comment,
			&rv.IsApproved, &rv.ApprovedBy, &rv.CreatedAt}
		if withEmail {
			dest = append(dest, &rv.UserEmail)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		list = append(list, rv)
	}
	return list, rows.Err()
}

// Approve makes a review publicly visible.
func (r *ReviewRepo) Approve(ctx context.Context, id, adminID uint64) error {
	res, err := q(ctx, r.DB).ExecContext(ctx,
		`UPDATE reviews SET is_approved=1, approved_by=? WHERE id=?`, adminID, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// Delete removes a review.  Rejecting a review deletes it outright.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := q(ctx, r.DB).ExecContext(ctx, `DELETE FROM reviews WHERE id=?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
