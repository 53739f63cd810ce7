package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Coco120903/batinos-garden-resort/internal/model"
)

// ChatRepo persists support chat threads and messages.
type ChatRepo struct{ DB *sql.DB }

func NewChatRepo(db *sql.DB) *ChatRepo { return &ChatRepo{DB: db} }

// ThreadByUser returns the user's thread, or ErrNotFound when they
// have not opened the chat yet.
func (r *ChatRepo) ThreadByUser(ctx context.Context, userID uint64) (model.ChatThread, error) {
	var t model.ChatThread
	err := q(ctx, r.DB).QueryRowContext(ctx,
		`SELECT id, user_id, status, last_message_at, created_at
		 FROM chat_threads WHERE user_id=? LIMIT 1`, userID).
		Scan(&t.ID, &t.UserID, &t.Status, &t.LastMessageAt, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ChatThread{}, ErrNotFound
	}
	return t, err
}

// ThreadByID returns a thread by id, for admin access.
func (r *ChatRepo) ThreadByID(ctx context.Context, id uint64) (model.ChatThread, error) {
	var t model.ChatThread
	err := q(ctx, r.DB).QueryRowContext(ctx,
		`SELECT id, user_id, status, last_message_at, created_at
		 FROM chat_threads WHERE id=? LIMIT 1`, id).
		Scan(&t.ID, &t.UserID, &t.Status, &t.LastMessageAt, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ChatThread{}, ErrNotFound
	}
	return t, err
}

// CreateThread opens a new thread for the user.  The unique key on
// user_id keeps it one thread per user; a concurrent create maps to
// ErrDuplicate so the caller can re-read.
func (r *ChatRepo) CreateThread(ctx context.Context, userID uint64) (model.ChatThread, error) {
	res, err := q(ctx, r.DB).ExecContext(ctx,
		`INSERT INTO chat_threads (user_id, status, last_message_at) VALUES (?,?,NOW())`,
		userID, model.ThreadOpen)
	if err != nil {
		if isDuplicateKey(err) {
			return model.ChatThread{}, ErrDuplicate
		}
		return model.ChatThread{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ChatThread{}, err
	}
	return r.ThreadByID(ctx, uint64(id))
}

// SetThreadStatus opens or closes a thread.
func (r *ChatRepo) SetThreadStatus(ctx context.Context, id uint64, status string) error {
	res, err := q(ctx, r.DB).ExecContext(ctx,
		`UPDATE chat_threads SET status=? WHERE id=?`, status, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// ListThreads returns every thread with owner name and email joined,
// most recently active first, for the admin inbox.
func (r *ChatRepo) ListThreads(ctx context.Context) ([]model.ChatThread, error) {
	rows, err := q(ctx, r.DB).QueryContext(ctx,
		`SELECT t.id, t.user_id, t.status, t.last_message_at, t.created_at, u.name, u.email
		 FROM chat_threads t JOIN users u ON u.id = t.user_id
		 ORDER BY t.last_message_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.ChatThread
	for rows.Next() {
		var t model.ChatThread
		if err := rows.Scan(&t.ID, &t.UserID, &t.Status, &t.LastMessageAt, &t.CreatedAt,
			&t.UserName, &t.UserEmail); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// AddMessage appends a message and bumps the thread's last_message_at.
func (r *ChatRepo) AddMessage(ctx context.Context, m *model.ChatMessage) (uint64, error) {
	var sender any
	if m.SenderUser != 0 {
		sender = m.SenderUser
	}
	res, err := q(ctx, r.DB).ExecContext(ctx,
		`INSERT INTO chat_messages (thread_id, sender_type, sender_user, text) VALUES (?,?,?,?)`,
		m.ThreadID, m.SenderType, sender, m.Text)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	m.ID = uint64(id)
	_, err = q(ctx, r.DB).ExecContext(ctx,
		`UPDATE chat_threads SET last_message_at=NOW() WHERE id=?`, m.ThreadID)
	return m.ID, err
}

// Messages returns the thread's messages in send order.  When sinceID
// is non-zero only messages after it are returned, so clients can poll
// incrementally.
func (r *ChatRepo) Messages(ctx context.Context, threadID, sinceID uint64) ([]model.ChatMessage, error) {
	rows, err := q(ctx, r.DB).QueryContext(ctx,
		`SELECT id, thread_id, sender_type, COALESCE(sender_user, 0), text, created_at
		 FROM chat_messages WHERE thread_id=? AND id>? ORDER BY id`, threadID, sinceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.SenderType, &m.SenderUser, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
