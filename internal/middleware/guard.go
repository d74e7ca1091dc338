package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/identity-console/api/internal/entity"
)

// RequireAuth rejects requests whose session did not resolve to an identity.
// The identity middleware itself never rejects; enforcement lives here so
// public routes stay reachable without credentials.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFromContext(c)
			switch sess.State {
			case entity.StateAuthenticated:
				return next(c)
			case entity.StateUnauthenticated:
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			default:
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
		}
	}
}

// RequireRole enforces that the authenticated session carries the expected role.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFromContext(c)
			if !sess.Authenticated() {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
			if !sess.HasRole(role) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
			}
			return next(c)
		}
	}
}
