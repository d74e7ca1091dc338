package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/identity-console/api/internal/config"
	"github.com/octobees/identity-console/api/internal/session"
)

// AdminHandler exposes operational diagnostics for console administrators.
type AdminHandler struct {
	cfg *config.Config
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(cfg *config.Config) *AdminHandler {
	return &AdminHandler{cfg: cfg}
}

// SessionConfig handles GET /admin/session/config: the effective cookie and
// security settings, for verifying deployments without reading cookies off a
// browser.
func (h *AdminHandler) SessionConfig(c echo.Context) error {
	return Success(c, http.StatusOK, "", map[string]any{
		"dev_mode":       h.cfg.DevMode,
		"secure_cookies": !h.cfg.DevMode,
		"backend_url":    h.cfg.BackendBaseURL,
		"http_timeout":   h.cfg.HTTPTimeout.String(),
		"cookies": []string{
			session.CookieAccessToken,
			session.CookieRefreshToken,
			session.CookieTenantID,
			session.CookieOriginalToken,
		},
	})
}
