package session

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/identity-console/api/internal/entity"
)

// Cookie names shared with the backend and existing clients. Renaming any of
// them breaks live sessions.
const (
	CookieAccessToken   = "access_token"
	CookieRefreshToken  = "refresh_token"
	CookieTenantID      = "tenant_id"
	CookieOriginalToken = "original_access_token"
)

const (
	tenantCookieMaxAge   = 30 * 24 * time.Hour
	originalCookieMaxAge = 8 * time.Hour
)

// Store reads and writes the session cookie set with fixed security
// attributes. It is the only durable holder of token state across requests;
// the server keeps no session state of its own.
type Store struct {
	secure bool
}

// NewStore constructs a cookie store. secure should be false only in dev mode.
func NewStore(secure bool) *Store {
	return &Store{secure: secure}
}

// AccessToken returns the active bearer credential, or "".
func (s *Store) AccessToken(c echo.Context) string {
	return read(c, CookieAccessToken)
}

// RefreshToken returns the long-lived refresh credential, or "".
func (s *Store) RefreshToken(c echo.Context) string {
	return read(c, CookieRefreshToken)
}

// TenantID returns the tenant selection cookie, or "".
func (s *Store) TenantID(c echo.Context) string {
	return read(c, CookieTenantID)
}

// OriginalToken returns the pre-switch access token. A non-empty value means
// the caller is currently operating under an assumed or delegated identity.
func (s *Store) OriginalToken(c echo.Context) string {
	return read(c, CookieOriginalToken)
}

// SetAccessToken installs the active bearer credential.
func (s *Store) SetAccessToken(c echo.Context, value string) {
	c.SetCookie(&http.Cookie{
		Name:     CookieAccessToken,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetRefreshToken installs the refresh credential.
func (s *Store) SetRefreshToken(c echo.Context, value string) {
	c.SetCookie(&http.Cookie{
		Name:     CookieRefreshToken,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetTenantID installs the tenant selection.
func (s *Store) SetTenantID(c echo.Context, value string) {
	c.SetCookie(&http.Cookie{
		Name:     CookieTenantID,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(tenantCookieMaxAge.Seconds()),
	})
}

// SetOriginalToken preserves the pre-switch access token for later restore.
func (s *Store) SetOriginalToken(c echo.Context, value string) {
	c.SetCookie(&http.Cookie{
		Name:     CookieOriginalToken,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(originalCookieMaxAge.Seconds()),
	})
}

// SetTokenPair installs a freshly minted access/refresh pair.
func (s *Store) SetTokenPair(c echo.Context, pair entity.TokenPair) {
	s.SetAccessToken(c, pair.AccessToken)
	s.SetRefreshToken(c, pair.RefreshToken)
}

// DeleteAccessToken removes a stale access token cookie.
func (s *Store) DeleteAccessToken(c echo.Context) {
	s.delete(c, CookieAccessToken)
}

// DeleteOriginalToken removes the preserved pre-switch token.
func (s *Store) DeleteOriginalToken(c echo.Context) {
	s.delete(c, CookieOriginalToken)
}

// ClearSession removes every session cookie, leaving the logged-out state.
func (s *Store) ClearSession(c echo.Context) {
	s.delete(c, CookieAccessToken)
	s.delete(c, CookieRefreshToken)
	s.delete(c, CookieTenantID)
	s.delete(c, CookieOriginalToken)
}

func (s *Store) delete(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		MaxAge:   -1,
	})
}

func read(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil || cookie == nil {
		return ""
	}
	return cookie.Value
}
