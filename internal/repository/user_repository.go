package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Coco120903/batinos-garden-resort/internal/model"
)

// UserRepo persists accounts in the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, name, email, phone, password_hash, role, is_email_verified,
	email_verify_hash, email_verify_expires, password_reset_hash, password_reset_expires,
	is_archived, created_at, updated_at`

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u            model.User
		verifyExp    sql.NullTime
		resetExp     sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role,
		&u.IsEmailVerified, &u.EmailVerifyHash, &verifyExp, &u.ResetHash, &resetExp,
		&u.IsArchived, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if verifyExp.Valid {
		t := verifyExp.Time
		u.EmailVerifyExpires = &t
	}
	if resetExp.Valid {
		t := resetExp.Time
		u.ResetExpires = &t
	}
	return u, nil
}

// Create inserts a new unverified user and returns its id.  The email
// is normalized to lower case; a duplicate email yields ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (uint64, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := q(ctx, r.DB).ExecContext(ctx,
		`INSERT INTO users (name, email, phone, password_hash, role, is_email_verified,
			email_verify_hash, email_verify_expires)
		 VALUES (?,?,?,?,?,?,?,?)`,
		u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.IsEmailVerified,
		u.EmailVerifyHash, u.EmailVerifyExpires)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = uint64(id)
	return u.ID, nil
}

// GetByEmail fetches a non-archived user by normalized email; returns
// ErrNotFound when absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(q(ctx, r.DB).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email=? AND is_archived=0 LIMIT 1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id; returns ErrNotFound when absent.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(q(ctx, r.DB).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// FindByVerifyHash resolves an unexpired email verification token hash
// to a user id.  Returns ErrNotFound for unknown or expired tokens.
func (r *UserRepo) FindByVerifyHash(ctx context.Context, hash string) (uint64, error) {
	var id uint64
	err := q(ctx, r.DB).QueryRowContext(ctx,
		`SELECT id FROM users
		 WHERE email_verify_hash=? AND email_verify_hash<>'' AND email_verify_expires > NOW()
		 LIMIT 1`, hash).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return id, err
}

// FindByResetHash resolves an unexpired password reset token hash to a
// user id.  Returns ErrNotFound for unknown or expired tokens.
func (r *UserRepo) FindByResetHash(ctx context.Context, hash string) (uint64, error) {
	var id uint64
	err := q(ctx, r.DB).QueryRowContext(ctx,
		`SELECT id FROM users
		 WHERE password_reset_hash=? AND password_reset_hash<>'' AND password_reset_expires > NOW()
		 LIMIT 1`, hash).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return id, err
}

// IsEmailVerified reports the verification flag for a user, for the
// route guard on booking creation.
func (r *UserRepo) IsEmailVerified(ctx context.Context, id uint64) (bool, error) {
	var verified bool
	err := q(ctx, r.DB).QueryRowContext(ctx,
		`SELECT is_email_verified FROM users WHERE id=? AND is_archived=0 LIMIT 1`, id).Scan(&verified)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	return verified, err
}

// MarkEmailVerified flips the verification flag and clears the pending
// token.
func (r *UserRepo) MarkEmailVerified(ctx context.Context, id uint64) error {
	_, err := q(ctx, r.DB).ExecContext(ctx,
		`UPDATE users SET is_email_verified=1, email_verify_hash='', email_verify_expires=NULL
		 WHERE id=?`, id)
	return err
}

// SetResetToken stores the hash and expiry of a new password reset
// token.
func (r *UserRepo) SetResetToken(ctx context.Context, id uint64, hash string, exp time.Time) error {
	_, err := q(ctx, r.DB).ExecContext(ctx,
		`UPDATE users SET password_reset_hash=?, password_reset_expires=? WHERE id=?`,
		hash, exp, id)
	return err
}

// ResetPassword replaces the password hash and clears the reset token.
func (r *UserRepo) ResetPassword(ctx context.Context, id uint64, passwordHash string) error {
	_, err := q(ctx, r.DB).ExecContext(ctx,
		`UPDATE users SET password_hash=?, password_reset_hash='', password_reset_expires=NULL
		 WHERE id=?`, passwordHash, id)
	return err
}

// UpdateProfile writes name, phone and, when non-empty, a new password
// hash.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, phone, passwordHash string) error {
	if passwordHash != "" {
		_, err := q(ctx, r.DB).ExecContext(ctx,
			`UPDATE users SET name=?, phone=?, password_hash=? WHERE id=?`,
			name, phone, passwordHash, id)
		return err
	}
	_, err := q(ctx, r.DB).ExecContext(ctx,
		`UPDATE users SET name=?, phone=? WHERE id=?`, name, phone, id)
	return err
}

// Archive soft-deletes the account.  The row stays so bookings and
// reviews keep their author reference.
func (r *UserRepo) Archive(ctx context.Context, id uint64) error {
	_, err := q(ctx, r.DB).ExecContext(ctx,
		`UPDATE users SET is_archived=1 WHERE id=?`, id)
	return err
}
