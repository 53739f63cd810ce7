package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Coco120903/batinos-garden-resort/internal/model"
)

// fakeCatalog serves services from a map.
type fakeCatalog struct {
	services map[uint64]*model.Service
}

func (f *fakeCatalog) ServiceByID(_ context.Context, id uint64) (*model.Service, error) {
	if s, ok := f.services[id]; ok {
		return s, nil
	}
	return nil, ErrServiceNotFound
}

// fakeStore keeps bookings in memory.  InTx holds a mutex for the
// whole callback, mirroring the serialization the database row lock
// provides in production.
type fakeStore struct {
	mu       sync.Mutex
	nextID   uint64
	bookings map[uint64]*model.Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, bookings: make(map[uint64]*model.Booking)}
}

func (f *fakeStore) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

func (f *fakeStore) LockService(context.Context, uint64) error { return nil }

func (f *fakeStore) FindOverlap(_ context.Context, serviceID uint64, start, end time.Time, excludeID uint64) (*model.Booking, error) {
	for _, b := range f.bookings {
		if b.ServiceID != serviceID || b.ID == excludeID || !b.Active() {
			continue
		}
		if b.Overlaps(start, end) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Create(_ context.Context, b *model.Booking) error {
	b.ID = f.nextID
	f.nextID++
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) Update(_ context.Context, b *model.Booking) error {
	if _, ok := f.bookings[b.ID]; !ok {
		return ErrNotFound
	}
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

// openGate and closedGate stand in for the maintenance flag.
type openGate struct{}

func (openGate) BookingOpen(context.Context) (bool, string) { return true, "" }

type closedGate struct{ msg string }

func (g closedGate) BookingOpen(context.Context) (bool, string) { return false, g.msg }

func newTestEngine(gate Gate) (*Engine, *fakeStore) {
	store := newFakeStore()
	catalog := &fakeCatalog{services: map[uint64]*model.Service{1: villaService()}}
	return NewEngine(catalog, store, gate), store
}

func validInput() SubmitInput {
	start := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	return SubmitInput{
		UserID:    7,
		ServiceID: 1,
		OptionID:  11,
		StartAt:   start,
		EndAt:     start.Add(9 * time.Hour),
		PaxCount:  30,
		EventType: model.EventBirthday,
	}
}

func TestEngineSubmitValidation(t *testing.T) {
	eng, _ := newTestEngine(openGate{})
	ctx := context.Background()

	t.Run("missing service", func(t *testing.T) {
		in := validInput()
		in.ServiceID = 0
		_, err := eng.Submit(ctx, in)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("missing dates", func(t *testing.T) {
		in := validInput()
		in.EndAt = time.Time{}
		_, err := eng.Submit(ctx, in)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("end not after start", func(t *testing.T) {
		in := validInput()
		in.EndAt = in.StartAt
		_, err := eng.Submit(ctx, in)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown service", func(t *testing.T) {
		in := validInput()
		in.ServiceID = 999
		_, err := eng.Submit(ctx, in)
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("unknown option", func(t *testing.T) {
		in := validInput()
		in.OptionID = 999
		_, err := eng.Submit(ctx, in)
		assert.ErrorIs(t, err, ErrOptionNotFound)
	})
}

func TestEngineSubmitMaintenanceClosed(t *testing.T) {
	eng, store := newTestEngine(closedGate{msg: "closed for repairs"})
	_, err := eng.Submit(context.Background(), validInput())

	var me *MaintenanceError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "closed for repairs", me.Message)
	assert.Empty(t, store.bookings, "nothing persisted while closed")
}

func TestEngineSubmitCreatesPending(t *testing.T) {
	eng, _ := newTestEngine(openGate{})
	in := validInput()
	in.Extras = []ExtraSelection{{ExtraCode: "CORKAGE", PricingKey: "flat", Quantity: 1}}

	b, err := eng.Submit(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, b)

	assert.NotZero(t, b.ID)
	assert.Equal(t, model.StatusPending, b.Status)
	assert.Equal(t, in.UserID, b.UserID)
	assert.Equal(t, model.EventBirthday, b.EventType)
	assert.Equal(t, int64(8000), b.Pricing.BasePrice)
	assert.Equal(t, int64(600), b.Pricing.ExcessPaxFee)
	assert.Equal(t, int64(500), b.Pricing.ExtrasTotal)
	assert.Equal(t, int64(9100), b.Pricing.Total)
	require.Len(t, b.Extras, 1)
	assert.Equal(t, int64(500), b.Extras[0].LineTotal)
}

func TestEngineSubmitDefaults(t *testing.T) {
	eng, _ := newTestEngine(openGate{})
	in := validInput()
	in.PaxCount = 0
	in.EventType = "Quinceañera"
	in.EventTypeOther = "Quinceañera"

	b, err := eng.Submit(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 1, b.PaxCount, "zero headcount defaults to one")
	assert.Equal(t, model.EventOther, b.EventType, "unrecognized event type falls back")
	assert.Equal(t, "Quinceañera", b.EventTypeOther)
}

func TestEngineSubmitConflict(t *testing.T) {
	eng, _ := newTestEngine(openGate{})
	ctx := context.Background()

	first, err := eng.Submit(ctx, validInput())
	require.NoError(t, err)

	t.Run("overlapping window rejected", func(t *testing.T) {
		in := validInput()
		in.StartAt = in.StartAt.Add(time.Hour)
		in.EndAt = in.EndAt.Add(time.Hour)
		_, err := eng.Submit(ctx, in)

		var ce *ConflictError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, first.ID, ce.BookingID)
		assert.Equal(t, model.StatusPending, ce.Status)
	})

	t.Run("one millisecond of overlap still rejected", func(t *testing.T) {
		in := validInput()
		in.StartAt = first.EndAt.Add(-time.Millisecond)
		in.EndAt = in.StartAt.Add(2 * time.Hour)
		_, err := eng.Submit(ctx, in)

		var ce *ConflictError
		assert.ErrorAs(t, err, &ce)
	})

	t.Run("back to back windows admitted", func(t *testing.T) {
		in := validInput()
		in.StartAt = first.EndAt
		in.EndAt = first.EndAt.Add(9 * time.Hour)
		b, err := eng.Submit(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, b.Status)
	})
}

func TestEngineSubmitConcurrent(t *testing.T) {
	eng, store := newTestEngine(openGate{})
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	results := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := validInput()
			in.UserID = uint64(100 + i)
			_, results[i] = eng.Submit(ctx, in)
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, err := range results {
		if err == nil {
			admitted++
			continue
		}
		var ce *ConflictError
		assert.True(t, errors.As(err, &ce), "losers must see a conflict, got %v", err)
	}
	assert.Equal(t, 1, admitted, "exactly one submission wins the window")
	assert.Len(t, store.bookings, 1)
}
