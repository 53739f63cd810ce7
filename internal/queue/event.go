// Package queue defines the booking events exchanged over the message
// broker and the background consumer that processes them.
package queue

// Event kinds carried on the booking.events queue.
const (
	KindCreated   = "created"
	KindApproved  = "approved"
	KindCancelled = "cancelled"
	KindCompleted = "completed"
)

// BookingEvent is published on every admission and lifecycle decision.
// It carries enough for downstream consumers to log and send guest
// notifications without querying the primary database.
type BookingEvent struct {
	Kind        string `json:"kind"`
	BookingID   uint64 `json:"booking_id"`
	UserID      uint64 `json:"user_id"`
	UserName    string `json:"user_name"`
	UserEmail   string `json:"user_email"`
	ServiceID   uint64 `json:"service_id"`
	ServiceName string `json:"service_name"`
	StartAt     string `json:"start_at"`
	EndAt       string `json:"end_at"`
	PaxCount    int    `json:"pax_count"`
	TotalPrice  int64  `json:"total_price"`
	Reason      string `json:"reason,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}
