package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Coco120903/batinos-garden-resort/internal/model"
	"github.com/Coco120903/batinos-garden-resort/internal/utils"
)

const testSecret = "test-secret"

type stubGate struct {
	open bool
	msg  string
}

func (g stubGate) BookingOpen(context.Context) (bool, string) { return g.open, g.msg }

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func doRequest(t *testing.T, mw []echo.MiddlewareFunc, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Any("/*", okHandler, mw...)

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func signedToken(t *testing.T, userID uint64, role string) string {
	t.Helper()
	at, err := utils.NewAccessToken(testSecret, userID, role, 15)
	require.NoError(t, err)
	return at.Token
}

func TestMaintenanceClosed(t *testing.T) {
	mw := []echo.MiddlewareFunc{OptionalJWT(testSecret), Maintenance(stubGate{open: false, msg: "back soon"})}

	t.Run("booking routes return 503", func(t *testing.T) {
		rec := doRequest(t, mw, http.MethodPost, "/api/bookings", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "MAINTENANCE_MODE", body["code"])
		assert.Equal(t, "back soon", body["message"])
	})

	t.Run("allowlisted paths stay reachable", func(t *testing.T) {
		for _, path := range []string{
			"/api/health",
			"/api/site",
			"/api/admin/site",
			"/api/chat/me",
			"/api/auth/login",
			"/api/auth/refresh",
			"/api/auth/me",
		} {
			rec := doRequest(t, mw, http.MethodGet, path, "")
			assert.Equal(t, http.StatusOK, rec.Code, path)
		}
	})

	t.Run("allowlist matches whole segments only", func(t *testing.T) {
		rec := doRequest(t, mw, http.MethodGet, "/api/sitemap", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("admin bypasses the gate", func(t *testing.T) {
		token := signedToken(t, 1, model.RoleAdmin)
		rec := doRequest(t, mw, http.MethodPost, "/api/bookings", token)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("regular user does not bypass", func(t *testing.T) {
		token := signedToken(t, 2, model.RoleUser)
		rec := doRequest(t, mw, http.MethodPost, "/api/bookings", token)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestMaintenanceOpen(t *testing.T) {
	mw := []echo.MiddlewareFunc{OptionalJWT(testSecret), Maintenance(stubGate{open: true})}
	rec := doRequest(t, mw, http.MethodPost, "/api/bookings", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuth(t *testing.T) {
	mw := []echo.MiddlewareFunc{JWTAuth(testSecret)}

	t.Run("missing token", func(t *testing.T) {
		rec := doRequest(t, mw, http.MethodGet, "/api/bookings/mine", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := doRequest(t, mw, http.MethodGet, "/api/bookings/mine", "not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		at, err := utils.NewAccessToken("other-secret", 5, model.RoleUser, 15)
		require.NoError(t, err)
		rec := doRequest(t, mw, http.MethodGet, "/api/bookings/mine", at.Token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token exposes identity", func(t *testing.T) {
		e := echo.New()
		e.GET("/whoami", func(c echo.Context) error {
			return c.JSON(http.StatusOK, echo.Map{
				"id":   UserID(c),
				"role": Role(c),
			})
		}, JWTAuth(testSecret))

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, 42, model.RoleUser))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			ID   uint64 `json:"id"`
			Role string `json:"role"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, uint64(42), body.ID)
		assert.Equal(t, model.RoleUser, body.Role)
	})
}

func TestRequireRole(t *testing.T) {
	mw := []echo.MiddlewareFunc{JWTAuth(testSecret), RequireRole(model.RoleAdmin)}

	t.Run("admin allowed", func(t *testing.T) {
		rec := doRequest(t, mw, http.MethodGet, "/api/admin/media", signedToken(t, 1, model.RoleAdmin))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("user forbidden", func(t *testing.T) {
		rec := doRequest(t, mw, http.MethodGet, "/api/admin/media", signedToken(t, 2, model.RoleUser))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

type stubVerified struct{ verified bool }

func (s stubVerified) IsEmailVerified(context.Context, uint64) (bool, error) {
	return s.verified, nil
}

func TestRequireVerified(t *testing.T) {
	t.Run("verified passes", func(t *testing.T) {
		mw := []echo.MiddlewareFunc{JWTAuth(testSecret), RequireVerified(stubVerified{verified: true})}
		rec := doRequest(t, mw, http.MethodPost, "/api/bookings", signedToken(t, 3, model.RoleUser))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unverified blocked", func(t *testing.T) {
		mw := []echo.MiddlewareFunc{JWTAuth(testSecret), RequireVerified(stubVerified{verified: false})}
		rec := doRequest(t, mw, http.MethodPost, "/api/bookings", signedToken(t, 3, model.RoleUser))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
