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

func cacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

func cachedServer(t *testing.T, cfg config.CacheConfig) (*echo.Echo, *int) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	hits := 0
	e := echo.New()
	mw := ResponseCache(cfg, rdb)
	e.GET("/api/services", func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusOK, echo.Map{"hits": hits})
	}, mw)
	e.GET("/api/missing", func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusNotFound, echo.Map{"error": "nope"})
	}, mw)
	e.POST("/api/services", func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusOK, echo.Map{"hits": hits})
	}, mw)
	return e, &hits
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestResponseCacheHit(t *testing.T) {
	e, hits := cachedServer(t, cacheConfig())

	first := get(e, "/api/services")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := get(e, "/api/services")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, *hits, "second request never reached the handler")
	assert.Equal(t, first.Header().Get("Content-Type"), second.Header().Get("Content-Type"))
}

func TestResponseCacheKeyIncludesQuery(t *testing.T) {
	e, hits := cachedServer(t, cacheConfig())

	get(e, "/api/services?category=room")
	get(e, "/api/services?category=facility")
	assert.Equal(t, 2, *hits, "different queries are distinct cache entries")

	get(e, "/api/services?category=room")
	assert.Equal(t, 2, *hits)
}

func TestResponseCacheSkips(t *testing.T) {
	t.Run("non-200 responses are not stored", func(t *testing.T) {
		e, hits := cachedServer(t, cacheConfig())
		get(e, "/api/missing")
		get(e, "/api/missing")
		assert.Equal(t, 2, *hits)
	})

	t.Run("unlisted methods pass through", func(t *testing.T) {
		e, hits := cachedServer(t, cacheConfig())
		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/services", nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
		}
		assert.Equal(t, 2, *hits)
	})

	t.Run("disabled config is a no-op", func(t *testing.T) {
		cfg := cacheConfig()
		cfg.Enabled = false
		e, hits := cachedServer(t, cfg)
		get(e, "/api/services")
		get(e, "/api/services")
		assert.Equal(t, 2, *hits)
	})
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	body := []byte(`{"services":[]}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)

	t.Run("truncated payload rejected", func(t *testing.T) {
		_, _, _, ok := decodePayload(payload[:6])
		assert.False(t, ok)
		_, _, _, ok = decodePayload(nil)
		assert.False(t, ok)
	})
}
