package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/identity-console/api/internal/apiclient"
	"github.com/octobees/identity-console/api/internal/entity"
	"github.com/octobees/identity-console/api/internal/middleware"
	"github.com/octobees/identity-console/api/internal/session"
)

type stubSwitchBackend struct {
	switchContext func(ctx context.Context, auth apiclient.Auth, target entity.SwitchTarget) (string, error)
	switchBack    func(ctx context.Context, auth apiclient.Auth) (string, error)
}

func (s *stubSwitchBackend) SwitchContext(ctx context.Context, auth apiclient.Auth, target entity.SwitchTarget) (string, error) {
	if s.switchContext != nil {
		return s.switchContext(ctx, auth, target)
	}
	return "", errors.New("not implemented")
}

func (s *stubSwitchBackend) SwitchBack(ctx context.Context, auth apiclient.Auth) (string, error) {
	if s.switchBack != nil {
		return s.switchBack(ctx, auth)
	}
	return "", errors.New("not implemented")
}

func newSwitchContext(t *testing.T, e *echo.Echo, body string, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, "/auth/context/switch", nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, "/auth/context/switch", bytes.NewBufferString(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextKeySession, entity.Session{
		State:       entity.StateAuthenticated,
		Identity:    entity.Identity{UserID: "user-1"},
		AccessToken: "current-token",
		TenantID:    "tenant-a",
	})
	return c, rec
}

func TestContextSwitchHandler_Switch(t *testing.T) {
	e := echo.New()

	t.Run("invalid type", func(t *testing.T) {
		handler := NewContextSwitchHandler(session.NewManager(&stubSwitchBackend{}, session.NewStore(true)))
		c, rec := newSwitchContext(t, e, `{"type":"impersonate","target_id":"x"}`)

		_ = handler.Switch(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("missing target", func(t *testing.T) {
		handler := NewContextSwitchHandler(session.NewManager(&stubSwitchBackend{}, session.NewStore(true)))
		c, rec := newSwitchContext(t, e, `{"type":"persona","target_id":" "}`)

		_ = handler.Switch(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		backend := &stubSwitchBackend{
			switchContext: func(ctx context.Context, auth apiclient.Auth, target entity.SwitchTarget) (string, error) {
				if auth.BearerToken != "current-token" || auth.TenantID != "tenant-a" {
					t.Fatalf("unexpected auth: %+v", auth)
				}
				return "persona-token", nil
			},
		}
		handler := NewContextSwitchHandler(session.NewManager(backend, session.NewStore(true)))
		c, rec := newSwitchContext(t, e, `{"type":"persona","target_id":"persona-1"}`)

		if err := handler.Switch(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if cookieByName(t, rec, session.CookieAccessToken).Value != "persona-token" {
			t.Fatalf("expected persona token installed")
		}
		if cookieByName(t, rec, session.CookieOriginalToken).Value != "current-token" {
			t.Fatalf("expected original token preserved")
		}
	})

	t.Run("nested switch rejected", func(t *testing.T) {
		handler := NewContextSwitchHandler(session.NewManager(&stubSwitchBackend{}, session.NewStore(true)))
		c, rec := newSwitchContext(t, e, `{"type":"persona","target_id":"persona-2"}`,
			&http.Cookie{Name: session.CookieOriginalToken, Value: "pre-first-switch"})

		_ = handler.Switch(c)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("backend rejection surfaces", func(t *testing.T) {
		backend := &stubSwitchBackend{
			switchContext: func(ctx context.Context, auth apiclient.Auth, target entity.SwitchTarget) (string, error) {
				return "", &apiclient.APIError{Status: http.StatusForbidden, Message: "poa grant expired"}
			},
		}
		handler := NewContextSwitchHandler(session.NewManager(backend, session.NewStore(true)))
		c, rec := newSwitchContext(t, e, `{"type":"poa","target_id":"user-2"}`)

		_ = handler.Switch(c)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		var resp APIResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Message != "poa grant expired" {
			t.Fatalf("expected backend message to surface, got %s", rec.Body.String())
		}
	})
}

func TestContextSwitchHandler_SwitchBack(t *testing.T) {
	e := echo.New()

	t.Run("restores original", func(t *testing.T) {
		backend := &stubSwitchBackend{
			switchBack: func(ctx context.Context, auth apiclient.Auth) (string, error) {
				return "", nil
			},
		}
		handler := NewContextSwitchHandler(session.NewManager(backend, session.NewStore(true)))
		c, rec := newSwitchContext(t, e, "",
			&http.Cookie{Name: session.CookieOriginalToken, Value: "original-token"})

		if err := handler.SwitchBack(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if cookieByName(t, rec, session.CookieAccessToken).Value != "original-token" {
			t.Fatalf("expected original token restored")
		}
	})

	t.Run("backend failure surfaces", func(t *testing.T) {
		backend := &stubSwitchBackend{
			switchBack: func(ctx context.Context, auth apiclient.Auth) (string, error) {
				return "", errors.New("network down")
			},
		}
		handler := NewContextSwitchHandler(session.NewManager(backend, session.NewStore(true)))
		c, rec := newSwitchContext(t, e, "",
			&http.Cookie{Name: session.CookieOriginalToken, Value: "original-token"})

		_ = handler.SwitchBack(c)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Fatalf("expected no cookie mutation on failure")
		}
	})
}
