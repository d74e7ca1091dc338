package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/octobees/identity-console/api/internal/entity"
)

// Context keys used to store request-scoped state.
const (
	ContextKeySession   = "session"
	ContextKeyRequestID = "request_id"
)

// SessionFromContext returns the resolved session for the request. Requests
// that never went through the identity middleware read as unauthenticated.
func SessionFromContext(c echo.Context) entity.Session {
	if sess, ok := c.Get(ContextKeySession).(entity.Session); ok {
		return sess
	}
	return entity.Session{State: entity.StateUnauthenticated}
}
