package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/identity-console/api/internal/apiclient"
	"github.com/octobees/identity-console/api/internal/middleware"
)

// BackendCaller is the generic request surface of the backend client.
type BackendCaller interface {
	Do(ctx context.Context, r apiclient.Request) (json.RawMessage, error)
}

var _ BackendCaller = (*apiclient.Client)(nil)

// ProxyHandler forwards console CRUD calls to the backend verbatim, attaching
// the caller's bearer token and tenant. All governance business logic lives
// behind this pass-through.
type ProxyHandler struct {
	backend BackendCaller
}

// NewProxyHandler constructs a ProxyHandler.
func NewProxyHandler(backend BackendCaller) *ProxyHandler {
	return &ProxyHandler{backend: backend}
}

// Forward handles any method on /api/*.
func (h *ProxyHandler) Forward(c echo.Context) error {
	sess := middleware.SessionFromContext(c)

	path := "/" + c.Param("*")
	if query := c.Request().URL.RawQuery; query != "" {
		path += "?" + query
	}

	var body any
	if c.Request().Body != nil {
		raw, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return Error(c, http.StatusBadRequest, "could not read request body")
		}
		if len(raw) > 0 {
			if !json.Valid(raw) {
				return Error(c, http.StatusBadRequest, "request body must be JSON")
			}
			body = json.RawMessage(raw)
		}
	}

	data, err := h.backend.Do(c.Request().Context(), apiclient.Request{
		Method:      c.Request().Method,
		Path:        path,
		Body:        body,
		BearerToken: sess.AccessToken,
		TenantID:    sess.TenantID,
		RequestID:   middleware.RequestIDFromContext(c),
	})
	if err != nil {
		return BackendError(c, err)
	}

	return Success(c, http.StatusOK, "", data)
}
