package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Coco120903/batinos-garden-resort/internal/model"
)

// Lifecycle applies admin-driven status transitions to existing
// bookings.  The legal moves:
//
//	Pending  -> Approved  (approve)
//	Pending  -> Cancelled (cancel)
//	Approved -> Cancelled (cancel)
//	Pending/Approved -> Completed (complete)
//	Pending/Approved -> same status, new window (reschedule)
//
// Completed and Cancelled are terminal; every transition attempted from
// them fails with *InvalidStateError and leaves the record untouched.
// Each transition is a read-check-write unit inside one transaction.
type Lifecycle struct {
	store Store
}

// NewLifecycle wires the lifecycle manager.
func NewLifecycle(store Store) *Lifecycle {
	if store == nil {
		panic("nil store passed to NewLifecycle")
	}
	return &Lifecycle{store: store}
}

// Approve moves a Pending booking to Approved and records the admin who
// approved it.
func (l *Lifecycle) Approve(ctx context.Context, id, adminID uint64) (*model.Booking, error) {
	return l.transition(ctx, id, func(txCtx context.Context, b *model.Booking) error {
		if b.Status != model.StatusPending {
			return &InvalidStateError{Action: "approve", Status: b.Status}
		}
		b.Status = model.StatusApproved
		b.ApprovedBy = adminID
		return nil
	})
}

// Reschedule moves a Pending or Approved booking to a new window.  The
// new window is re-checked for conflicts against other active bookings
// on the same service, excluding the booking being moved.  The price
// snapshot is untouched; optional notes are appended to the booking's
// notes with a reschedule marker.
func (l *Lifecycle) Reschedule(ctx context.Context, id uint64, start, end time.Time, notes string) (*model.Booking, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: start date and end date are required", ErrValidation)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrValidation)
	}
	return l.transition(ctx, id, func(txCtx context.Context, b *model.Booking) error {
		if b.Terminal() {
			return &InvalidStateError{Action: "reschedule", Status: b.Status}
		}
		if err := l.store.LockService(txCtx, b.ServiceID); err != nil {
			return err
		}
		conflict, err := l.store.FindOverlap(txCtx, b.ServiceID, start.UTC(), end.UTC(), b.ID)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &ConflictError{
				BookingID: conflict.ID,
				StartAt:   conflict.StartAt,
				EndAt:     conflict.EndAt,
				Status:    conflict.Status,
			}
		}
		b.StartAt = start.UTC()
		b.EndAt = end.UTC()
		if strings.TrimSpace(notes) != "" {
			b.Notes = b.Notes + "\n[Rescheduled] " + strings.TrimSpace(notes)
		}
		return nil
	})
}

// Cancel moves a Pending or Approved booking to Cancelled, recording
// who cancelled and why.  The row stays; cancellation is never a
// deletion.
func (l *Lifecycle) Cancel(ctx context.Context, id, adminID uint64, reason string) (*model.Booking, error) {
	return l.transition(ctx, id, func(txCtx context.Context, b *model.Booking) error {
		if b.Terminal() {
			return &InvalidStateError{Action: "cancel", Status: b.Status}
		}
		b.Status = model.StatusCancelled
		b.CancelledBy = adminID
		b.CancellationReason = reason
		return nil
	})
}

// Complete moves a Pending or Approved booking to Completed.
func (l *Lifecycle) Complete(ctx context.Context, id uint64) (*model.Booking, error) {
	return l.transition(ctx, id, func(txCtx context.Context, b *model.Booking) error {
		if b.Terminal() {
			return &InvalidStateError{Action: "complete", Status: b.Status}
		}
		b.Status = model.StatusCompleted
		return nil
	})
}

// transition loads the booking inside a transaction, applies mutate and
// persists the result.  The callback receives the transaction context
// so conflict re-checks in Reschedule share the same transaction.
func (l *Lifecycle) transition(ctx context.Context, id uint64, mutate func(context.Context, *model.Booking) error) (*model.Booking, error) {
	var out *model.Booking
	err := l.store.InTx(ctx, func(txCtx context.Context) error {
		b, err := l.store.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := mutate(txCtx, b); err != nil {
			return err
		}
		if err := l.store.Update(txCtx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Re-read to refresh joined display fields after the mutation.
	if fresh, err := l.store.GetByID(ctx, out.ID); err == nil {
		return fresh, nil
	}
	return out, nil
}
