package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/octobees/identity-console/api/internal/entity"
	"github.com/octobees/identity-console/api/internal/session"
	"github.com/octobees/identity-console/api/internal/token"
)

type stubRefresher struct {
	refresh func(ctx context.Context, refreshToken string) (entity.TokenPair, error)
	calls   int
}

func (s *stubRefresher) Refresh(ctx context.Context, refreshToken string) (entity.TokenPair, error) {
	s.calls++
	if s.refresh != nil {
		return s.refresh(ctx, refreshToken)
	}
	return entity.TokenPair{}, errors.New("not implemented")
}

func mintToken(t *testing.T, subject, tenant string, expiresAt time.Time) string {
	t.Helper()
	claims := &token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email:    subject + "@example.com",
		Roles:    []string{"reviewer"},
		TenantID: tenant,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runIdentity(t *testing.T, refresher session.TokenRefresher, cookies ...*http.Cookie) (entity.Session, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured entity.Session
	err := Identity(session.NewStore(true), refresher)(func(c echo.Context) error {
		captured = SessionFromContext(c)
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Fatalf("identity middleware must never fail the request, got %v", err)
	}
	return captured, rec
}

func responseCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestIdentity_NoToken(t *testing.T) {
	refresher := &stubRefresher{}
	sess, rec := runIdentity(t, refresher)

	if sess.Authenticated() {
		t.Fatalf("expected unauthenticated session")
	}
	if refresher.calls != 0 {
		t.Fatalf("refresh must not be attempted without a token")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("expected no cookie writes, got %v", rec.Result().Cookies())
	}
}

func TestIdentity_ValidToken(t *testing.T) {
	accessToken := mintToken(t, "user-1", "tenant-a", time.Now().Add(time.Hour))
	refresher := &stubRefresher{}

	sess, rec := runIdentity(t, refresher,
		&http.Cookie{Name: session.CookieAccessToken, Value: accessToken},
	)

	if !sess.Authenticated() {
		t.Fatalf("expected authenticated session")
	}
	if sess.Identity.UserID != "user-1" || sess.Identity.Email != "user-1@example.com" {
		t.Fatalf("unexpected identity: %+v", sess.Identity)
	}
	if sess.AccessToken != accessToken || sess.TenantID != "tenant-a" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if refresher.calls != 0 {
		t.Fatalf("refresh must not run for a valid token")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("expected no cookie writes for a valid token")
	}
}

func TestIdentity_TenantClaimWinsOverCookie(t *testing.T) {
	accessToken := mintToken(t, "user-1", "tenant-a", time.Now().Add(time.Hour))

	sess, _ := runIdentity(t, &stubRefresher{},
		&http.Cookie{Name: session.CookieAccessToken, Value: accessToken},
		&http.Cookie{Name: session.CookieTenantID, Value: "tenant-b"},
	)

	if sess.TenantID != "tenant-a" {
		t.Fatalf("expected claims tenant to win, got %s", sess.TenantID)
	}
}

func TestIdentity_TenantCookieFallback(t *testing.T) {
	accessToken := mintToken(t, "user-1", "", time.Now().Add(time.Hour))

	sess, _ := runIdentity(t, &stubRefresher{},
		&http.Cookie{Name: session.CookieAccessToken, Value: accessToken},
		&http.Cookie{Name: session.CookieTenantID, Value: "tenant-b"},
	)

	if sess.TenantID != "tenant-b" {
		t.Fatalf("expected tenant cookie fallback, got %s", sess.TenantID)
	}
}

func TestIdentity_MalformedToken(t *testing.T) {
	sess, rec := runIdentity(t, &stubRefresher{},
		&http.Cookie{Name: session.CookieAccessToken, Value: "not-a-jwt"},
	)

	if sess.Authenticated() {
		t.Fatalf("expected unauthenticated session for malformed token")
	}
	stale := responseCookie(t, rec, session.CookieAccessToken)
	if stale == nil || stale.MaxAge >= 0 {
		t.Fatalf("expected stale access token cookie to be removed, got %+v", stale)
	}
}

func TestIdentity_ExpiredWithRefresh(t *testing.T) {
	expired := mintToken(t, "user-1", "tenant-a", time.Now().Add(-time.Minute))
	fresh := mintToken(t, "user-1", "tenant-a", time.Now().Add(time.Hour))

	refresher := &stubRefresher{
		refresh: func(ctx context.Context, refreshToken string) (entity.TokenPair, error) {
			if refreshToken != "rt-1" {
				t.Fatalf("unexpected refresh token: %s", refreshToken)
			}
			return entity.TokenPair{AccessToken: fresh, RefreshToken: "rt-2", ExpiresIn: 900}, nil
		},
	}

	sess, rec := runIdentity(t, refresher,
		&http.Cookie{Name: session.CookieAccessToken, Value: expired},
		&http.Cookie{Name: session.CookieRefreshToken, Value: "rt-1"},
	)

	if !sess.Authenticated() {
		t.Fatalf("expected authenticated session after refresh")
	}
	if sess.AccessToken != fresh {
		t.Fatalf("expected the refreshed token in the session")
	}

	access := responseCookie(t, rec, session.CookieAccessToken)
	refresh := responseCookie(t, rec, session.CookieRefreshToken)
	if access == nil || access.Value != fresh {
		t.Fatalf("expected new access token cookie, got %+v", access)
	}
	if refresh == nil || refresh.Value != "rt-2" {
		t.Fatalf("expected rotated refresh token cookie, got %+v", refresh)
	}
}

func TestIdentity_ExpiredRefreshFails(t *testing.T) {
	expired := mintToken(t, "user-1", "tenant-a", time.Now().Add(-time.Minute))
	refresher := &stubRefresher{
		refresh: func(ctx context.Context, refreshToken string) (entity.TokenPair, error) {
			return entity.TokenPair{}, &session.AuthError{Err: errors.New("connection refused")}
		},
	}

	sess, rec := runIdentity(t, refresher,
		&http.Cookie{Name: session.CookieAccessToken, Value: expired},
		&http.Cookie{Name: session.CookieRefreshToken, Value: "rt-1"},
		&http.Cookie{Name: session.CookieTenantID, Value: "tenant-a"},
	)

	if sess.Authenticated() {
		t.Fatalf("expected unauthenticated session after failed refresh")
	}
	for _, name := range []string{session.CookieAccessToken, session.CookieRefreshToken, session.CookieTenantID} {
		cookie := responseCookie(t, rec, name)
		if cookie == nil || cookie.MaxAge >= 0 {
			t.Fatalf("expected %s to be cleared, got %+v", name, cookie)
		}
	}
}

func TestIdentity_ExpiredWithoutRefresh(t *testing.T) {
	expired := mintToken(t, "user-1", "tenant-a", time.Now().Add(-time.Minute))
	refresher := &stubRefresher{}

	sess, rec := runIdentity(t, refresher,
		&http.Cookie{Name: session.CookieAccessToken, Value: expired},
	)

	if sess.Authenticated() {
		t.Fatalf("expected unauthenticated session")
	}
	if refresher.calls != 0 {
		t.Fatalf("refresh must not be attempted without a refresh token")
	}
	stale := responseCookie(t, rec, session.CookieAccessToken)
	if stale == nil || stale.MaxAge >= 0 {
		t.Fatalf("expected stale access token cookie removed, got %+v", stale)
	}
}
