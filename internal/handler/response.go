package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/identity-console/api/internal/apiclient"
)

// APIResponse describes the standard envelope returned by the console API.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	payload := APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
	return c.JSON(status, payload)
}

// BackendError maps a failed backend call onto the envelope: backend
// rejections keep their status and message, transport failures become a 502.
func BackendError(c echo.Context, err error) error {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return Error(c, apiErr.Status, apiErr.Message)
	}
	return Error(c, http.StatusBadGateway, "backend request failed")
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	payload := APIResponse{
		Status:  "error",
		Message: message,
	}
	return c.JSON(status, payload)
}
