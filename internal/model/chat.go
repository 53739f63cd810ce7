package model

import "time"

// Chat thread statuses and message sender types for the support chat.
// Each user owns at most one thread; messages within a thread come
// from the user, an admin, or the system (automated replies).
const (
	ThreadOpen   = "open"
	ThreadClosed = "closed"

	SenderUser   = "user"
	SenderAdmin  = "admin"
	SenderSystem = "system"
)

// ChatThread is a support conversation as stored in `chat_threads`.
// A thread is created lazily the first time a user opens the chat.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – owning user (unique; one thread per user).
//  Status        – "open" or "closed"; closed threads reject user messages.
//  LastMessageAt – timestamp of the latest message, for admin inbox sorting.
type ChatThread struct {
	ID            uint64    // chat_threads.id
	UserID        uint64    // chat_threads.user_id
	Status        string    // chat_threads.status
	LastMessageAt time.Time // chat_threads.last_message_at
	UserName      string    // users.name (joined, admin listing only)
	UserEmail     string    // users.email (joined, admin listing only)
	CreatedAt     time.Time // chat_threads.created_at
}

// ChatMessage is one message in a thread as stored in `chat_messages`.
//
// Fields:
//  ID         – primary key identifier.
//  ThreadID   – owning thread.
//  SenderType – "user", "admin" or "system".
//  SenderUser – user id of the sender, 0 for system messages.
//  Text       – message body, capped at 2000 characters.
//  CreatedAt  – send timestamp.
type ChatMessage struct {
	ID         uint64    // chat_messages.id
	ThreadID   uint64    // chat_messages.thread_id
	SenderType string    // chat_messages.sender_type
	SenderUser uint64    // chat_messages.sender_user (0 = system)
	Text       string    // chat_messages.text
	CreatedAt  time.Time // chat_messages.created_at
}

// MaxChatMessage caps the chat message length.
const MaxChatMessage = 2000

// WelcomeMessage is the automated reply posted when a thread is created.
const WelcomeMessage = "Thanks for reaching out! We received your message. Our team will get back to you as soon as possible."
