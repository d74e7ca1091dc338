package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/identity-console/api/internal/apiclient"
	"github.com/octobees/identity-console/api/internal/dto"
	"github.com/octobees/identity-console/api/internal/entity"
	"github.com/octobees/identity-console/api/internal/middleware"
)

// ConsoleBackend is the backend surface used by the console shell.
type ConsoleBackend interface {
	AlertsCount(ctx context.Context, auth apiclient.Auth) (int, error)
	AssumptionStatus(ctx context.Context, auth apiclient.Auth) (entity.AssumptionState, error)
	PersonaContext(ctx context.Context, auth apiclient.Auth) (json.RawMessage, error)
}

var _ ConsoleBackend = (*apiclient.Client)(nil)

// ConsoleHandler serves the aggregate context the console shell loads on
// every page.
type ConsoleHandler struct {
	backend ConsoleBackend
}

// NewConsoleHandler constructs a ConsoleHandler.
func NewConsoleHandler(backend ConsoleBackend) *ConsoleHandler {
	return &ConsoleHandler{backend: backend}
}

// Overview handles GET /console/overview. Each backend read is best effort:
// a failure is logged with the request id and degraded to a zero value, never
// failing the whole page load.
func (h *ConsoleHandler) Overview(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	auth := apiclient.Auth{
		BearerToken: sess.AccessToken,
		TenantID:    sess.TenantID,
		RequestID:   middleware.RequestIDFromContext(c),
	}
	ctx := c.Request().Context()

	resp := dto.OverviewResponse{}

	alerts, err := h.backend.AlertsCount(ctx, auth)
	if err != nil {
		log.Printf("request_id=%s alerts count unavailable: %v", auth.RequestID, err)
	} else {
		resp.AlertsCount = alerts
	}

	assumption, err := h.backend.AssumptionStatus(ctx, auth)
	if err != nil {
		log.Printf("request_id=%s assumption status unavailable: %v", auth.RequestID, err)
	} else {
		resp.Assumption = dto.AssumptionInfo{
			Active:   assumption.Active,
			Type:     assumption.Type,
			TargetID: assumption.TargetID,
		}
	}

	personas, err := h.backend.PersonaContext(ctx, auth)
	if err != nil {
		log.Printf("request_id=%s persona context unavailable: %v", auth.RequestID, err)
	} else {
		resp.PersonaContext = personas
	}

	return Success(c, http.StatusOK, "", resp)
}
