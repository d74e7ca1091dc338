package middleware

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/octobees/identity-console/api/internal/entity"
	"github.com/octobees/identity-console/api/internal/session"
	"github.com/octobees/identity-console/api/internal/token"
)

// Identity resolves the caller's identity from session cookies once per
// request, refreshing the access token when it has expired. It never rejects
// a request: every branch ends in either an authenticated session or a
// cleared, unauthenticated one, and route guards decide what unauthenticated
// means for their route. Cookie writes are its only side effects.
func Identity(cookies *session.Store, refresher session.TokenRefresher) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextKeySession, resolveSession(c, cookies, refresher))
			return next(c)
		}
	}
}

func resolveSession(c echo.Context, cookies *session.Store, refresher session.TokenRefresher) entity.Session {
	accessToken := cookies.AccessToken(c)
	if accessToken == "" {
		return entity.Session{State: entity.StateUnauthenticated}
	}

	if !token.IsExpired(accessToken) {
		return sessionFromToken(accessToken, cookies.TenantID(c))
	}

	refreshToken := cookies.RefreshToken(c)
	if refreshToken == "" {
		cookies.DeleteAccessToken(c)
		return entity.Session{State: entity.StateUnauthenticated}
	}

	pair, err := refresher.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		rid, _ := c.Get(ContextKeyRequestID).(string)
		log.Printf("request_id=%s session refresh failed: %v", rid, err)
		cookies.ClearSession(c)
		return entity.Session{State: entity.StateUnauthenticated}
	}

	cookies.SetTokenPair(c, pair)
	sess := sessionFromToken(pair.AccessToken, cookies.TenantID(c))
	if !sess.Authenticated() {
		// The backend minted a token we cannot decode. Fail closed.
		cookies.ClearSession(c)
	}
	return sess
}

// sessionFromToken decodes the access token into a request-scoped session.
// The tenant claim in the token wins over the tenant cookie, because context
// switches carry their tenant in the minted token.
func sessionFromToken(accessToken, cookieTenant string) entity.Session {
	claims := token.Decode(accessToken)
	if claims == nil {
		return entity.Session{State: entity.StateUnauthenticated}
	}

	tenant := claims.TenantID
	if tenant == "" {
		tenant = cookieTenant
	}

	return entity.Session{
		State: entity.StateAuthenticated,
		Identity: entity.Identity{
			UserID: claims.Subject,
			Email:  claims.Email,
			Roles:  claims.Roles,
		},
		AccessToken: accessToken,
		TenantID:    tenant,
	}
}
