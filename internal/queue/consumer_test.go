package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	approved  []BookingEvent
	cancelled []BookingEvent
}

func (n *recordingNotifier) BookingApproved(ev BookingEvent) error {
	n.approved = append(n.approved, ev)
	return nil
}

func (n *recordingNotifier) BookingCancelled(ev BookingEvent) error {
	n.cancelled = append(n.cancelled, ev)
	return nil
}

func sampleEvent(kind string) BookingEvent {
	return BookingEvent{
		Kind:        kind,
		BookingID:   12,
		UserID:      7,
		UserName:    "Ana",
		UserEmail:   "ana@example.com",
		ServiceID:   1,
		ServiceName: "Pavilion",
		StartAt:     "2026-09-10T08:00:00Z",
		EndAt:       "2026-09-10T17:00:00Z",
		PaxCount:    30,
		TotalPrice:  8600,
		OccurredAt:  "2026-08-28T10:00:00Z",
	}
}

func TestHandleEvent(t *testing.T) {
	t.Chdir(t.TempDir())

	notify := &recordingNotifier{}

	t.Run("approved event notifies and logs", func(t *testing.T) {
		body, err := json.Marshal(sampleEvent(KindApproved))
		require.NoError(t, err)
		require.NoError(t, handleEvent(body, notify))
		require.Len(t, notify.approved, 1)
		assert.Equal(t, uint64(12), notify.approved[0].BookingID)

		raw, err := os.ReadFile(filepath.Join("logs", "booking.log"))
		require.NoError(t, err)
		assert.Contains(t, string(raw), "booking approved")
		assert.Contains(t, string(raw), "booking_id=12")
		assert.Contains(t, string(raw), `service="Pavilion"`)
	})

	t.Run("cancelled event notifies", func(t *testing.T) {
		body, err := json.Marshal(sampleEvent(KindCancelled))
		require.NoError(t, err)
		require.NoError(t, handleEvent(body, notify))
		assert.Len(t, notify.cancelled, 1)
	})

	t.Run("created event only logs", func(t *testing.T) {
		body, err := json.Marshal(sampleEvent(KindCreated))
		require.NoError(t, err)
		require.NoError(t, handleEvent(body, notify))
		assert.Len(t, notify.approved, 1)
		assert.Len(t, notify.cancelled, 1)
	})

	t.Run("nil notifier is fine", func(t *testing.T) {
		body, err := json.Marshal(sampleEvent(KindApproved))
		require.NoError(t, err)
		assert.NoError(t, handleEvent(body, nil))
	})

	t.Run("malformed payload rejected", func(t *testing.T) {
		assert.Error(t, handleEvent([]byte("{broken"), notify))
	})
}
