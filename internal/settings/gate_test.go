package settings

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Coco120903/batinos-garden-resort/internal/model"
)

// fakeSource counts reads and serves a canned settings record.
type fakeSource struct {
	settings model.SiteSettings
	err      error
	calls    int
}

func (f *fakeSource) GetOrCreate(context.Context) (model.SiteSettings, error) {
	f.calls++
	if f.err != nil {
		return model.SiteSettings{}, f.err
	}
	return f.settings, nil
}

func openSettings() model.SiteSettings {
	return model.SiteSettings{
		Key:    model.SettingsKey,
		System: model.SystemSettings{IsBookingOpen: true},
	}
}

func closedSettings(msg string) model.SiteSettings {
	return model.SiteSettings{
		Key:    model.SettingsKey,
		System: model.SystemSettings{IsBookingOpen: false, MaintenanceMessage: msg},
	}
}

func testRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestGateBookingOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("open flag", func(t *testing.T) {
		src := &fakeSource{settings: openSettings()}
		g := NewGate(src, nil, time.Second)
		open, msg := g.BookingOpen(ctx)
		assert.True(t, open)
		assert.Empty(t, msg)
	})

	t.Run("closed with custom message", func(t *testing.T) {
		src := &fakeSource{settings: closedSettings("back at noon")}
		g := NewGate(src, nil, time.Second)
		open, msg := g.BookingOpen(ctx)
		assert.False(t, open)
		assert.Equal(t, "back at noon", msg)
	})

	t.Run("closed without message uses default", func(t *testing.T) {
		src := &fakeSource{settings: closedSettings("")}
		g := NewGate(src, nil, time.Second)
		open, msg := g.BookingOpen(ctx)
		assert.False(t, open)
		assert.Equal(t, model.DefaultMaintenanceMessage, msg)
	})

	t.Run("fails open when store is down", func(t *testing.T) {
		src := &fakeSource{err: errors.New("connection refused")}
		g := NewGate(src, nil, time.Second)
		open, msg := g.BookingOpen(ctx)
		assert.True(t, open)
		assert.Empty(t, msg)
	})
}

func TestGateLocalCache(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{settings: openSettings()}
	g := NewGate(src, nil, time.Minute)

	for i := 0; i < 5; i++ {
		open, _ := g.BookingOpen(ctx)
		assert.True(t, open)
	}
	assert.Equal(t, 1, src.calls, "repeated checks are served from cache")

	g.Invalidate(ctx)
	g.BookingOpen(ctx)
	assert.Equal(t, 2, src.calls, "invalidate forces a fresh read")
}

func TestGateRedisCache(t *testing.T) {
	ctx := context.Background()
	mr, rdb := testRedis(t)

	t.Run("first read populates the cache", func(t *testing.T) {
		src := &fakeSource{settings: closedSettings("pool cleaning")}
		g := NewGate(src, rdb, time.Minute)

		open, msg := g.BookingOpen(ctx)
		assert.False(t, open)
		assert.Equal(t, "pool cleaning", msg)
		assert.Equal(t, 1, src.calls)
		assert.True(t, mr.Exists("settings:default"))
	})

	t.Run("second gate instance reads the shared cache", func(t *testing.T) {
		src := &fakeSource{settings: openSettings()}
		g := NewGate(src, rdb, time.Minute)

		open, msg := g.BookingOpen(ctx)
		assert.False(t, open, "cached closed flag wins over the source")
		assert.Equal(t, "pool cleaning", msg)
		assert.Equal(t, 0, src.calls)
	})

	t.Run("invalidate clears redis too", func(t *testing.T) {
		src := &fakeSource{settings: openSettings()}
		g := NewGate(src, rdb, time.Minute)

		g.Invalidate(ctx)
		assert.False(t, mr.Exists("settings:default"))

		open, _ := g.BookingOpen(ctx)
		assert.True(t, open)
		assert.Equal(t, 1, src.calls)
	})

	t.Run("garbage in the cache falls through to the source", func(t *testing.T) {
		require.NoError(t, mr.Set("settings:default", "{not json"))
		src := &fakeSource{settings: openSettings()}
		g := NewGate(src, rdb, time.Minute)

		open, _ := g.BookingOpen(ctx)
		assert.True(t, open)
		assert.Equal(t, 1, src.calls)
	})
}

func TestGateRedisExpiry(t *testing.T) {
	ctx := context.Background()
	mr, rdb := testRedis(t)
	src := &fakeSource{settings: openSettings()}
	g := NewGate(src, rdb, 5*time.Second)

	g.BookingOpen(ctx)
	require.Equal(t, 1, src.calls)

	mr.FastForward(6 * time.Second)
	// Drop the in-process copy so the read must go through redis.
	g.Invalidate(ctx)

	g.BookingOpen(ctx)
	assert.Equal(t, 2, src.calls, "expired cache entry triggers a reload")
}

func TestGateCachePayloadShape(t *testing.T) {
	ctx := context.Background()
	mr, rdb := testRedis(t)
	src := &fakeSource{settings: closedSettings("renovation")}
	g := NewGate(src, rdb, time.Minute)

	g.BookingOpen(ctx)
	raw, err := mr.Get("settings:default")
	require.NoError(t, err)

	var sys model.SystemSettings
	require.NoError(t, json.Unmarshal([]byte(raw), &sys))
	assert.False(t, sys.IsBookingOpen)
	assert.Equal(t, "renovation", sys.MaintenanceMessage)
}
