package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// RequireRole aborts with 403 unless the "role" claim stored by
// JWTAuth is one of the given roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !allowed[Role(c)] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// VerifiedChecker answers whether a user has verified their email.
type VerifiedChecker interface {
	IsEmailVerified(ctx context.Context, userID uint64) (bool, error)
}

// RequireVerified blocks users who have not confirmed their email
// address yet.  A lookup failure is treated as unverified.
func RequireVerified(check VerifiedChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := UserID(c)
			if id == 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			ok, err := check.IsEmailVerified(ctx, id)
			if err != nil || !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "email not verified"})
			}
			return next(c)
		}
	}
}
