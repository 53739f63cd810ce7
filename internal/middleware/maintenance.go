package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Coco120903/batinos-garden-resort/internal/model"
)

// BookingGate reports whether booking is open and, when closed, the
// maintenance message to show.
type BookingGate interface {
	BookingOpen(ctx context.Context) (bool, string)
}

// Paths that stay reachable while the site is in maintenance mode.
// Admins must be able to log in and flip the flag back, and users must
// still reach their account and the support chat.
var maintenanceAllow = []string{
	"/api/health",
	"/api/site",
	"/api/admin",
	"/api/chat",
	"/api/auth/login",
	"/api/auth/register",
	"/api/auth/verify-email",
	"/api/auth/forgot-password",
	"/api/auth/reset-password",
	"/api/auth/refresh",
	"/api/auth/me",
}

// Maintenance returns 503 with code MAINTENANCE_MODE for all API
// routes outside the allowlist while booking is closed.  Admins pass
// through regardless.  A gate failure lets the request through; an
// unreachable settings store never takes the site down harder.
func Maintenance(gate BookingGate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, p := range maintenanceAllow {
				if path == p || strings.HasPrefix(path, p+"/") {
					return next(c)
				}
			}
			if Role(c) == model.RoleAdmin {
				return next(c)
			}
			open, msg := gate.BookingOpen(c.Request().Context())
			if open {
				return next(c)
			}
			return c.JSON(http.StatusServiceUnavailable, echo.Map{
				"code":    "MAINTENANCE_MODE",
				"message": msg,
			})
		}
	}
}
