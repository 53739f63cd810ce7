package booking

import (
	"context"
	"time"

	"github.com/Coco120903/batinos-garden-resort/internal/model"
)

// Catalog provides read-only access to the bookable services.  The
// returned service carries its options and extras; implementations
// return ErrServiceNotFound when the id does not resolve.
type Catalog interface {
	ServiceByID(ctx context.Context, id uint64) (*model.Service, error)
}

// Store persists bookings.  The conflict check and the subsequent
// insert (or reschedule update) must run inside InTx with the service
// row locked via LockService, so that two concurrent submissions for
// the same service serialize at the database and cannot both pass the
// overlap check.  Methods called inside the InTx callback operate on
// the transaction carried by the context.
type Store interface {
	// InTx runs fn inside a database transaction.  The transaction is
	// committed when fn returns nil and rolled back otherwise.
	InTx(ctx context.Context, fn func(ctx context.Context) error) error

	// LockService takes a row lock on the service, serializing
	// admissions per resource for the rest of the transaction.
	LockService(ctx context.Context, serviceID uint64) error

	// FindOverlap returns an active (Pending or Approved) booking on the
	// service whose [StartAt, EndAt) window overlaps [start, end), or
	// nil when none exists.  excludeID skips one booking, used when
	// rescheduling that booking itself.
	FindOverlap(ctx context.Context, serviceID uint64, start, end time.Time, excludeID uint64) (*model.Booking, error)

	// Create inserts a new booking and populates its generated id and
	// timestamps.
	Create(ctx context.Context, b *model.Booking) error

	// GetByID loads a booking with its extras and joined user/service
	// display fields; returns ErrNotFound when absent.
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)

	// Update persists status, window, notes and audit field changes.
	// The price snapshot columns are never written by Update.
	Update(ctx context.Context, b *model.Booking) error
}

// Gate exposes the system-wide maintenance flag consulted before
// admitting new bookings.  Implementations fail open: when the flag
// cannot be read the gate reports booking open, so a settings-store
// hiccup never blocks the whole business.
type Gate interface {
	BookingOpen(ctx context.Context) (open bool, message string)
}
