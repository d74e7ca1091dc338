package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/identity-console/api/internal/apiclient"
	"github.com/octobees/identity-console/api/internal/dto"
	"github.com/octobees/identity-console/api/internal/entity"
	"github.com/octobees/identity-console/api/internal/middleware"
	"github.com/octobees/identity-console/api/internal/session"
	"github.com/octobees/identity-console/api/internal/token"
)

// AuthBackend is the backend surface used by the authentication endpoints.
type AuthBackend interface {
	Login(ctx context.Context, email, password, tenantID string) (entity.TokenPair, error)
	Logout(ctx context.Context, auth apiclient.Auth, refreshToken string) error
}

var _ AuthBackend = (*apiclient.Client)(nil)

// AuthHandler exposes login, logout and session introspection endpoints.
type AuthHandler struct {
	backend AuthBackend
	cookies *session.Store
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(backend AuthBackend, cookies *session.Store) *AuthHandler {
	return &AuthHandler{backend: backend, cookies: cookies}
}

// Login handles POST /auth/login: it proxies credentials to the backend and
// installs the minted cookie set on success.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return Error(c, http.StatusBadRequest, "email and password are required")
	}

	pair, err := h.backend.Login(c.Request().Context(), req.Email, req.Password, req.TenantID)
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return Error(c, http.StatusUnauthorized, "invalid credentials")
		}
		return BackendError(c, err)
	}

	claims := token.Decode(pair.AccessToken)
	if claims == nil {
		return Error(c, http.StatusBadGateway, "backend issued an unreadable token")
	}

	tenant := claims.TenantID
	if tenant == "" {
		tenant = req.TenantID
	}

	h.cookies.SetTokenPair(c, pair)
	if tenant != "" {
		h.cookies.SetTenantID(c, tenant)
	}

	return Success(c, http.StatusOK, "login successful", dto.SessionResponse{
		UserID:   claims.Subject,
		Email:    claims.Email,
		Roles:    claims.Roles,
		TenantID: tenant,
	})
}

// Logout handles POST /auth/logout. The backend revocation is best effort;
// the client-side session is cleared either way.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	refreshToken := h.cookies.RefreshToken(c)

	if refreshToken != "" {
		auth := apiclient.Auth{
			BearerToken: sess.AccessToken,
			TenantID:    sess.TenantID,
			RequestID:   middleware.RequestIDFromContext(c),
		}
		if err := h.backend.Logout(c.Request().Context(), auth, refreshToken); err != nil {
			log.Printf("request_id=%s backend logout failed: %v", auth.RequestID, err)
		}
	}

	h.cookies.ClearSession(c)
	return Success(c, http.StatusOK, "logged out", nil)
}

// Session handles GET /auth/session: whoami for the console shell.
func (h *AuthHandler) Session(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	return Success(c, http.StatusOK, "", dto.SessionResponse{
		UserID:   sess.Identity.UserID,
		Email:    sess.Identity.Email,
		Roles:    sess.Identity.Roles,
		TenantID: sess.TenantID,
		Switched: h.cookies.OriginalToken(c) != "",
	})
}
