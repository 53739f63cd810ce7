package model

import "time"

// Review is a guest review as stored in the `reviews` table.  New
// reviews land unapproved and only show publicly after an admin
// approves them.  Rejection deletes the row.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – author of the review.
//  Name       – author display name frozen at submission.
//  Rating     – 1..5 stars.
//  Comment    – review text, capped at 1200 characters.
//  IsApproved – whether the review is publicly visible.
//  ApprovedBy – admin who approved, 0 when pending.
//  CreatedAt  – submission timestamp.
type Review struct {
	ID         uint64    // reviews.id
	UserID     uint64    // reviews.user_id
	Name       string    // reviews.name
	Rating     int       // reviews.rating
	Comment    string    // reviews.comment
	IsApproved bool      // reviews.is_approved
	ApprovedBy uint64    // reviews.approved_by (0 = none)
	UserEmail  string    // users.email (joined, admin listing only)
	CreatedAt  time.Time // reviews.created_at
}

// MaxReviewComment caps the review comment length.
const MaxReviewComment = 1200
