package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/identity-console/api/internal/apiclient"
	"github.com/octobees/identity-console/api/internal/dto"
	"github.com/octobees/identity-console/api/internal/entity"
	"github.com/octobees/identity-console/api/internal/middleware"
	"github.com/octobees/identity-console/api/internal/session"
)

// ContextSwitchHandler exposes persona assumption and POA delegation
// endpoints. Unlike the identity middleware these are explicit user actions,
// so backend failures surface to the caller instead of degrading silently.
type ContextSwitchHandler struct {
	manager *session.Manager
}

// NewContextSwitchHandler constructs a ContextSwitchHandler.
func NewContextSwitchHandler(manager *session.Manager) *ContextSwitchHandler {
	return &ContextSwitchHandler{manager: manager}
}

// Switch handles POST /auth/context/switch.
func (h *ContextSwitchHandler) Switch(c echo.Context) error {
	var req dto.SwitchRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	req.TargetID = strings.TrimSpace(req.TargetID)
	if req.TargetID == "" {
		return Error(c, http.StatusBadRequest, "target_id is required")
	}
	if req.Type != entity.SwitchTypePersona && req.Type != entity.SwitchTypePOA {
		return Error(c, http.StatusBadRequest, "type must be persona or poa")
	}

	sess := middleware.SessionFromContext(c)
	auth := apiclient.Auth{
		BearerToken: sess.AccessToken,
		TenantID:    sess.TenantID,
		RequestID:   middleware.RequestIDFromContext(c),
	}
	target := entity.SwitchTarget{Type: req.Type, TargetID: req.TargetID, TenantID: req.TenantID}

	if err := h.manager.Switch(c.Request().Context(), c, auth, target); err != nil {
		switch {
		case errors.Is(err, session.ErrAlreadySwitched):
			return Error(c, http.StatusConflict, "an identity context switch is already active")
		case errors.Is(err, session.ErrUnauthenticated):
			return Error(c, http.StatusUnauthorized, "authentication required")
		default:
			return BackendError(c, err)
		}
	}

	return Success(c, http.StatusOK, "context switched", nil)
}

// SwitchBack handles POST /auth/context/switchback.
func (h *ContextSwitchHandler) SwitchBack(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	auth := apiclient.Auth{
		BearerToken: sess.AccessToken,
		TenantID:    sess.TenantID,
		RequestID:   middleware.RequestIDFromContext(c),
	}

	if err := h.manager.SwitchBack(c.Request().Context(), c, auth); err != nil {
		if errors.Is(err, session.ErrUnauthenticated) {
			return Error(c, http.StatusUnauthorized, "authentication required")
		}
		return BackendError(c, err)
	}

	return Success(c, http.StatusOK, "context restored", nil)
}
