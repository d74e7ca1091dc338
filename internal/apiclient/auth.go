package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/octobees/identity-console/api/internal/entity"
)

// Auth carries the per-request credentials attached to authenticated backend
// calls.
type Auth struct {
	BearerToken string
	TenantID    string
	RequestID   string
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password, tenantID string) (entity.TokenPair, error) {
	data, err := c.Do(ctx, Request{
		Method:   http.MethodPost,
		Path:     "/auth/login",
		Body:     map[string]string{"email": email, "password": password, "tenant_id": tenantID},
		TenantID: tenantID,
	})
	if err != nil {
		return entity.TokenPair{}, err
	}
	return decodeTokenPair(data)
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (entity.TokenPair, error) {
	data, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/auth/token/refresh",
		Body:   map[string]string{"refresh_token": refreshToken},
	})
	if err != nil {
		return entity.TokenPair{}, err
	}
	return decodeTokenPair(data)
}

// SwitchContext asks the backend to mint a context-scoped access token for the
// given persona or POA target.
func (c *Client) SwitchContext(ctx context.Context, auth Auth, target entity.SwitchTarget) (string, error) {
	data, err := c.Do(ctx, Request{
		Method:      http.MethodPost,
		Path:        "/auth/context/switch",
		Body:        target,
		BearerToken: auth.BearerToken,
		TenantID:    auth.TenantID,
		RequestID:   auth.RequestID,
	})
	if err != nil {
		return "", err
	}

	accessToken, err := decodeAccessToken(data)
	if err != nil {
		return "", err
	}
	if accessToken == "" {
		return "", errors.New("backend returned no access token for context switch")
	}
	return accessToken, nil
}

// SwitchBack asks the backend to end the assumed context. Some backends return
// a fresh access token on drop and some return nothing; an empty string means
// no token was issued.
func (c *Client) SwitchBack(ctx context.Context, auth Auth) (string, error) {
	data, err := c.Do(ctx, Request{
		Method:      http.MethodPost,
		Path:        "/auth/context/switchback",
		Body:        map[string]string{},
		BearerToken: auth.BearerToken,
		TenantID:    auth.TenantID,
		RequestID:   auth.RequestID,
	})
	if err != nil {
		return "", err
	}
	return decodeAccessToken(data)
}

// Logout revokes the refresh token at the backend.
func (c *Client) Logout(ctx context.Context, auth Auth, refreshToken string) error {
	_, err := c.Do(ctx, Request{
		Method:      http.MethodPost,
		Path:        "/auth/logout",
		Body:        map[string]string{"refresh_token": refreshToken},
		BearerToken: auth.BearerToken,
		TenantID:    auth.TenantID,
		RequestID:   auth.RequestID,
	})
	return err
}

// AlertsCount returns the caller's open governance alert count.
func (c *Client) AlertsCount(ctx context.Context, auth Auth) (int, error) {
	data, err := c.Do(ctx, Request{
		Method:      http.MethodGet,
		Path:        "/console/alerts/count",
		BearerToken: auth.BearerToken,
		TenantID:    auth.TenantID,
		RequestID:   auth.RequestID,
	})
	if err != nil {
		return 0, err
	}

	var payload struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return 0, fmt.Errorf("could not decode alerts count: %w", err)
	}
	return payload.Count, nil
}

// AssumptionStatus returns the backend's view of the caller's assumed context.
func (c *Client) AssumptionStatus(ctx context.Context, auth Auth) (entity.AssumptionState, error) {
	data, err := c.Do(ctx, Request{
		Method:      http.MethodGet,
		Path:        "/auth/context/status",
		BearerToken: auth.BearerToken,
		TenantID:    auth.TenantID,
		RequestID:   auth.RequestID,
	})
	if err != nil {
		return entity.AssumptionState{}, err
	}

	var state entity.AssumptionState
	if err := json.Unmarshal(data, &state); err != nil {
		return entity.AssumptionState{}, fmt.Errorf("could not decode assumption status: %w", err)
	}
	return state, nil
}

// PersonaContext returns the personas and POA grants available to the caller,
// passed through to the UI untouched.
func (c *Client) PersonaContext(ctx context.Context, auth Auth) (json.RawMessage, error) {
	return c.Do(ctx, Request{
		Method:      http.MethodGet,
		Path:        "/console/persona-context",
		BearerToken: auth.BearerToken,
		TenantID:    auth.TenantID,
		RequestID:   auth.RequestID,
	})
}

func decodeTokenPair(data json.RawMessage) (entity.TokenPair, error) {
	var pair entity.TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return entity.TokenPair{}, fmt.Errorf("could not decode token pair: %w", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return entity.TokenPair{}, errors.New("backend returned an incomplete token pair")
	}
	return pair, nil
}

func decodeAccessToken(data json.RawMessage) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("could not decode access token: %w", err)
	}
	return payload.AccessToken, nil
}
