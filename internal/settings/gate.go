// Package settings caches the site settings singleton and exposes the
// booking open/closed flag to the admission engine and the HTTP layer.
package settings

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Coco120903/batinos-garden-resort/internal/model"
)

const cacheKey = "settings:default"

// Source loads the persisted settings singleton, creating the default
// row when none exists yet.
type Source interface {
	GetOrCreate(ctx context.Context) (model.SiteSettings, error)
}

// Gate answers whether booking is currently open.  Reads go through a
// short-TTL Redis cache (with an in-process fallback when Redis is not
// configured) so the flag check does not hit MySQL on every request.
// Lookups fail open: when neither cache nor database can answer,
// booking is treated as open.
type Gate struct {
	Repo  Source
	Redis *redis.Client
	TTL   time.Duration

	mu       sync.Mutex
	cached   model.SystemSettings
	cachedAt time.Time
}

func NewGate(repo Source, rdb *redis.Client, ttl time.Duration) *Gate {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &Gate{Repo: repo, Redis: rdb, TTL: ttl}
}

// BookingOpen reports whether new bookings are admitted, and the
// maintenance message to show when they are not.
func (g *Gate) BookingOpen(ctx context.Context) (bool, string) {
	sys, ok := g.fromRedis(ctx)
	if !ok {
		sys, ok = g.fromLocal()
	}
	if !ok {
		s, err := g.Repo.GetOrCreate(ctx)
		if err != nil {
			// Fail open: an unreachable settings store must not
			// block bookings.
			log.Printf("settings: lookup failed, treating booking as open: %v", err)
			return true, ""
		}
		sys = s.System
		g.store(ctx, sys)
	}
	if sys.IsBookingOpen {
		return true, ""
	}
	msg := sys.MaintenanceMessage
	if msg == "" {
		msg = model.DefaultMaintenanceMessage
	}
	return false, msg
}

// Invalidate drops the cached flag.  Called after an admin updates the
// site settings so the change takes effect immediately on this node.
func (g *Gate) Invalidate(ctx context.Context) {
	g.mu.Lock()
	g.cachedAt = time.Time{}
	g.mu.Unlock()
	if g.Redis != nil {
		if err := g.Redis.Del(ctx, cacheKey).Err(); err != nil {
			log.Printf("settings: cache invalidate failed: %v", err)
		}
	}
}

func (g *Gate) fromRedis(ctx context.Context) (model.SystemSettings, bool) {
	if g.Redis == nil {
		return model.SystemSettings{}, false
	}
	raw, err := g.Redis.Get(ctx, cacheKey).Bytes()
	if err != nil {
		return model.SystemSettings{}, false
	}
	var sys model.SystemSettings
	if err := json.Unmarshal(raw, &sys); err != nil {
		return model.SystemSettings{}, false
	}
	return sys, true
}

func (g *Gate) fromLocal() (model.SystemSettings, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cachedAt.IsZero() || time.Since(g.cachedAt) > g.TTL {
		return model.SystemSettings{}, false
	}
	return g.cached, true
}

func (g *Gate) store(ctx context.Context, sys model.SystemSettings) {
	g.mu.Lock()
	g.cached = sys
	g.cachedAt = time.Now()
	g.mu.Unlock()
	if g.Redis != nil {
		if raw, err := json.Marshal(sys); err == nil {
			g.Redis.Set(ctx, cacheKey, raw, g.TTL)
		}
	}
}
