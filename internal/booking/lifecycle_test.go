package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Coco120903/batinos-garden-resort/internal/model"
)

func seedBooking(t *testing.T, store *fakeStore, status string, start, end time.Time) *model.Booking {
	t.Helper()
	b := &model.Booking{
		UserID:    7,
		ServiceID: 1,
		StartAt:   start,
		EndAt:     end,
		Status:    status,
		EventType: model.EventOther,
		PaxCount:  10,
		Notes:     "bring own sound system",
		Pricing:   model.Pricing{BasePrice: 8000, Total: 8000},
	}
	require.NoError(t, store.Create(context.Background(), b))
	return b
}

func window(day int) (time.Time, time.Time) {
	start := time.Date(2026, 10, day, 8, 0, 0, 0, time.UTC)
	return start, start.Add(9 * time.Hour)
}

func TestLifecycleApprove(t *testing.T) {
	store := newFakeStore()
	lc := NewLifecycle(store)
	ctx := context.Background()
	start, end := window(1)

	t.Run("pending is approved", func(t *testing.T) {
		b := seedBooking(t, store, model.StatusPending, start, end)
		got, err := lc.Approve(ctx, b.ID, 99)
		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, got.Status)
		assert.Equal(t, uint64(99), got.ApprovedBy)
	})

	t.Run("approve is not idempotent", func(t *testing.T) {
		b := seedBooking(t, store, model.StatusApproved, start, end)
		_, err := lc.Approve(ctx, b.ID, 99)
		var ise *InvalidStateError
		require.ErrorAs(t, err, &ise)
		assert.Equal(t, "approve", ise.Action)
	})

	t.Run("missing booking", func(t *testing.T) {
		_, err := lc.Approve(ctx, 424242, 99)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLifecycleTransitionTable(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name   string
		from   string
		action func(*Lifecycle, uint64) error
		ok     bool
	}{
		{"approve from pending", model.StatusPending, func(lc *Lifecycle, id uint64) error {
			_, err := lc.Approve(ctx, id, 1)
			return err
		}, true},
		{"approve from completed", model.StatusCompleted, func(lc *Lifecycle, id uint64) error {
			_, err := lc.Approve(ctx, id, 1)
			return err
		}, false},
		{"cancel from pending", model.StatusPending, func(lc *Lifecycle, id uint64) error {
			_, err := lc.Cancel(ctx, id, 1, "guest request")
			return err
		}, true},
		{"cancel from approved", model.StatusApproved, func(lc *Lifecycle, id uint64) error {
			_, err := lc.Cancel(ctx, id, 1, "guest request")
			return err
		}, true},
		{"cancel from cancelled", model.StatusCancelled, func(lc *Lifecycle, id uint64) error {
			_, err := lc.Cancel(ctx, id, 1, "again")
			return err
		}, false},
		{"complete from pending", model.StatusPending, func(lc *Lifecycle, id uint64) error {
			_, err := lc.Complete(ctx, id)
			return err
		}, true},
		{"complete from approved", model.StatusApproved, func(lc *Lifecycle, id uint64) error {
			_, err := lc.Complete(ctx, id)
			return err
		}, true},
		{"complete from cancelled", model.StatusCancelled, func(lc *Lifecycle, id uint64) error {
			_, err := lc.Complete(ctx, id)
			return err
		}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			lc := NewLifecycle(store)
			start, end := window(2)
			b := seedBooking(t, store, tc.from, start, end)

			err := tc.action(lc, b.ID)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			var ise *InvalidStateError
			require.ErrorAs(t, err, &ise)
			assert.Equal(t, tc.from, ise.Status)

			// Terminal records stay exactly as they were.
			after, gerr := store.GetByID(ctx, b.ID)
			require.NoError(t, gerr)
			assert.Equal(t, tc.from, after.Status)
		})
	}
}

func TestLifecycleCancelRecordsAudit(t *testing.T) {
	store := newFakeStore()
	lc := NewLifecycle(store)
	start, end := window(3)
	b := seedBooking(t, store, model.StatusApproved, start, end)

	got, err := lc.Cancel(context.Background(), b.ID, 42, "typhoon warning")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, got.Status)
	assert.Equal(t, uint64(42), got.CancelledBy)
	assert.Equal(t, "typhoon warning", got.CancellationReason)
}

func TestLifecycleReschedule(t *testing.T) {
	ctx := context.Background()

	t.Run("window validation", func(t *testing.T) {
		lc := NewLifecycle(newFakeStore())
		start, _ := window(4)
		_, err := lc.Reschedule(ctx, 1, start, start, "")
		assert.ErrorIs(t, err, ErrValidation)
		_, err = lc.Reschedule(ctx, 1, time.Time{}, start, "")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("moves window and keeps snapshot", func(t *testing.T) {
		store := newFakeStore()
		lc := NewLifecycle(store)
		start, end := window(5)
		b := seedBooking(t, store, model.StatusApproved, start, end)

		newStart := start.Add(48 * time.Hour)
		newEnd := end.Add(48 * time.Hour)
		got, err := lc.Reschedule(ctx, b.ID, newStart, newEnd, "moved for weather")
		require.NoError(t, err)
		assert.True(t, got.StartAt.Equal(newStart))
		assert.True(t, got.EndAt.Equal(newEnd))
		assert.Equal(t, model.StatusApproved, got.Status, "status survives a reschedule")
		assert.Equal(t, int64(8000), got.Pricing.Total, "price snapshot untouched")
		assert.Contains(t, got.Notes, "[Rescheduled] moved for weather")
		assert.Contains(t, got.Notes, "bring own sound system")
	})

	t.Run("own window does not conflict with itself", func(t *testing.T) {
		store := newFakeStore()
		lc := NewLifecycle(store)
		start, end := window(6)
		b := seedBooking(t, store, model.StatusPending, start, end)

		// Shift by one hour; the new window overlaps the old one.
		got, err := lc.Reschedule(ctx, b.ID, start.Add(time.Hour), end.Add(time.Hour), "")
		require.NoError(t, err)
		assert.True(t, got.StartAt.Equal(start.Add(time.Hour)))
	})

	t.Run("conflict with another active booking", func(t *testing.T) {
		store := newFakeStore()
		lc := NewLifecycle(store)
		start, end := window(7)
		b := seedBooking(t, store, model.StatusPending, start, end)
		other := seedBooking(t, store, model.StatusApproved, start.Add(72*time.Hour), end.Add(72*time.Hour))

		_, err := lc.Reschedule(ctx, b.ID, other.StartAt, other.EndAt, "")
		var ce *ConflictError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, other.ID, ce.BookingID)
	})

	t.Run("terminal booking cannot move", func(t *testing.T) {
		store := newFakeStore()
		lc := NewLifecycle(store)
		start, end := window(8)
		b := seedBooking(t, store, model.StatusCancelled, start, end)

		_, err := lc.Reschedule(ctx, b.ID, start.Add(time.Hour), end.Add(time.Hour), "")
		var ise *InvalidStateError
		assert.ErrorAs(t, err, &ise)
	})
}

func TestLifecycleEndToEnd(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	catalog := &fakeCatalog{services: map[uint64]*model.Service{1: villaService()}}
	eng := NewEngine(catalog, store, openGate{})
	lc := NewLifecycle(store)

	b, err := eng.Submit(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, b.Status)

	b, err = lc.Approve(ctx, b.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, b.Status)

	b, err = lc.Cancel(ctx, b.ID, 1, "payment never arrived")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, b.Status)

	_, err = lc.Approve(ctx, b.ID, 1)
	assert.Error(t, err)
	_, err = lc.Complete(ctx, b.ID)
	assert.Error(t, err)

	// The cancelled window is free again.
	again, err := eng.Submit(ctx, validInput())
	require.NoError(t, err)
	assert.NotEqual(t, b.ID, again.ID)
}
