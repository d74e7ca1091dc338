package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// Logging writes a concise structured line for each HTTP request, including
// the resolved user when the session authenticated.
func Logging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			rid, _ := c.Get(ContextKeyRequestID).(string)
			userID := "-"
			if sess := SessionFromContext(c); sess.Authenticated() {
				userID = sess.Identity.UserID
			}
			log.Printf("request_id=%s method=%s path=%s status=%d user_id=%s latency=%s", rid, c.Request().Method, c.Request().URL.Path, c.Response().Status, userID, latency)

			return err
		}
	}
}
