package model

import "time"

// Roles assigned to accounts.  Admins manage the catalog, bookings,
// reviews, media and site settings; regular users create bookings and
// reviews for themselves.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account record as stored in the `users` table.
// Email verification and password reset both work through hashed
// one-time tokens: only the SHA-256 digest of the token is persisted,
// together with its expiry.  Accounts are never physically deleted;
// closing an account sets IsArchived instead.
//
// Fields:
//  ID                 – primary key identifier of the user.
//  Name               – display name.
//  Email              – unique, lowercased email address.
//  Phone              – optional contact number.
//  PasswordHash       – bcrypt hashed password.
//  Role               – "user" or "admin".
//  IsEmailVerified    – whether the verification link was followed.
//  EmailVerifyHash    – SHA-256 hex digest of the pending verification token.
//  EmailVerifyExpires – when the verification token expires (nullable).
//  ResetHash          – SHA-256 hex digest of the pending password reset token.
//  ResetExpires       – when the reset token expires (nullable).
//  IsArchived         – soft-delete flag.
//  CreatedAt          – timestamp of creation.
//  UpdatedAt          – timestamp of last update.
type User struct {
	ID                 uint64     // users.id
	Name               string     // users.name
	Email              string     // users.email
	Phone              string     // users.phone
	PasswordHash       string     // users.password_hash
	Role               string     // users.role
	IsEmailVerified    bool       // users.is_email_verified
	EmailVerifyHash    string     // users.email_verify_hash
	EmailVerifyExpires *time.Time // users.email_verify_expires (nullable)
	ResetHash          string     // users.password_reset_hash
	ResetExpires       *time.Time // users.password_reset_expires (nullable)
	IsArchived         bool       // users.is_archived
	CreatedAt          time.Time  // users.created_at
	UpdatedAt          time.Time  // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
