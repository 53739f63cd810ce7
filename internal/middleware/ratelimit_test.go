package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Coco120903/batinos-garden-resort/internal/config"
)

func limiterConfig(capacity int) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip",
		Prefix:         "rl",
	}
}

func limitedServer(t *testing.T, cfg config.RateLimitConfig) (*echo.Echo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	e := echo.New()
	e.GET("/api/services", okHandler, RateLimit(cfg, rdb))
	return e, mr
}

func hit(e *echo.Echo, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/services", nil)
	req.RemoteAddr = ip + ":1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitBucket(t *testing.T) {
	e, _ := limitedServer(t, limiterConfig(3))

	for i := 0; i < 3; i++ {
		rec := hit(e, "10.0.0.1")
		require.Equal(t, http.StatusOK, rec.Code, "request %d within capacity", i+1)
		assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := hit(e, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "too_many_requests")
}

func TestRateLimitPerKey(t *testing.T) {
	e, _ := limitedServer(t, limiterConfig(1))

	require.Equal(t, http.StatusOK, hit(e, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(e, "10.0.0.1").Code)

	// A different client has its own bucket.
	assert.Equal(t, http.StatusOK, hit(e, "10.0.0.2").Code)
}

func TestRateLimitRefill(t *testing.T) {
	cfg := limiterConfig(1)
	cfg.RefillInterval = 100 * time.Millisecond
	e, _ := limitedServer(t, cfg)

	require.Equal(t, http.StatusOK, hit(e, "10.0.0.1").Code)
	require.Equal(t, http.StatusTooManyRequests, hit(e, "10.0.0.1").Code)

	// The bucket refills by wall clock, not by redis server time.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, http.StatusOK, hit(e, "10.0.0.1").Code)
}

func TestRateLimitDisabled(t *testing.T) {
	cfg := limiterConfig(1)
	cfg.Enabled = false
	e, _ := limitedServer(t, cfg)

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, hit(e, "10.0.0.1").Code)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	e, mr := limitedServer(t, limiterConfig(1))
	mr.Close()

	// With redis gone every request passes through.
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(e, "10.0.0.1").Code)
	}
}
