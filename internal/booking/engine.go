package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/Coco120903/batinos-garden-resort/internal/model"
)

// Engine admits new bookings: it validates the request, consults the
// maintenance gate, resolves the service and option, rejects schedule
// conflicts and freezes the price snapshot.  The overlap check and the
// insert run in one transaction with the service row locked, which is
// what makes the no-double-booking invariant hold under concurrent
// submissions.
type Engine struct {
	catalog Catalog
	store   Store
	gate    Gate
}

// NewEngine wires the admission engine.  All dependencies must be
// non-nil.
func NewEngine(catalog Catalog, store Store, gate Gate) *Engine {
	if catalog == nil || store == nil || gate == nil {
		panic("nil dependency passed to NewEngine")
	}
	return &Engine{catalog: catalog, store: store, gate: gate}
}

// SubmitInput carries a booking request after boundary parsing.  The
// HTTP layer is responsible for turning raw timestamps into time.Time;
// the engine only checks window ordering.  OptionID zero means the
// service's flat price applies.
type SubmitInput struct {
	UserID         uint64
	ServiceID      uint64
	OptionID       uint64
	StartAt        time.Time
	EndAt          time.Time
	PaxCount       int
	EventType      string
	EventTypeOther string
	Notes          string
	Extras         []ExtraSelection
}

// Submit admits a booking request and returns the created reservation
// in Pending status, populated with user and service display fields.
//
// Failure modes: ErrValidation for missing fields or a bad window,
// *MaintenanceError when booking is closed, ErrServiceNotFound /
// ErrOptionNotFound for unresolvable references, and *ConflictError
// when an active reservation already occupies an overlapping window.
func (e *Engine) Submit(ctx context.Context, in SubmitInput) (*model.Booking, error) {
	if in.ServiceID == 0 || in.StartAt.IsZero() || in.EndAt.IsZero() {
		return nil, fmt.Errorf("%w: service, start date and end date are required", ErrValidation)
	}

	if open, msg := e.gate.BookingOpen(ctx); !open {
		return nil, &MaintenanceError{Message: msg}
	}

	svc, err := e.catalog.ServiceByID(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	if !in.EndAt.After(in.StartAt) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrValidation)
	}

	var opt *model.ServiceOption
	if in.OptionID != 0 {
		if opt = svc.Option(in.OptionID); opt == nil {
			return nil, ErrOptionNotFound
		}
	}

	pax := in.PaxCount
	if pax < 1 {
		pax = 1
	}
	eventType := in.EventType
	if !model.KnownEventType(eventType) {
		eventType = model.EventOther
	}

	pricing, lines := ComputePricing(svc, opt, pax, in.Extras)

	b := &model.Booking{
		UserID:         in.UserID,
		ServiceID:      in.ServiceID,
		OptionID:       in.OptionID,
		StartAt:        in.StartAt.UTC(),
		EndAt:          in.EndAt.UTC(),
		Status:         model.StatusPending,
		EventType:      eventType,
		EventTypeOther: in.EventTypeOther,
		PaxCount:       pax,
		Notes:          in.Notes,
		Pricing:        pricing,
		Extras:         lines,
	}

	err = e.store.InTx(ctx, func(txCtx context.Context) error {
		if err := e.store.LockService(txCtx, in.ServiceID); err != nil {
			return err
		}
		conflict, err := e.store.FindOverlap(txCtx, in.ServiceID, b.StartAt, b.EndAt, 0)
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
		return e.store.Create(txCtx, b)
	})
	if err != nil {
		return nil, err
	}

	// Re-read outside the transaction to attach joined display fields.
	created, err := e.store.GetByID(ctx, b.ID)
	if err != nil {
		return b, nil
	}
	return created, nil
}
