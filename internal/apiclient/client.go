package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client performs JSON calls against the governance backend API. The backend
// owns all business logic and re-validates the bearer token on every call;
// this client is pure transport.
type Client struct {
	client  *http.Client
	baseURL string
}

// Request describes a single backend call: method, path, optional JSON body,
// and the per-request credentials to attach.
type Request struct {
	Method      string
	Path        string
	Body        any
	BearerToken string
	TenantID    string
	RequestID   string
}

// APIError is a backend rejection, carrying the HTTP status the backend
// answered with and the message extracted from its error envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Message)
}

// New builds a backend client. A nil http.Client falls back to the default
// client; callers should inject one with a bounded timeout.
func New(client *http.Client, baseURL string) *Client {
	if baseURL == "" {
		panic("baseURL must not be empty")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Do executes the request and returns the "data" object of the backend's
// response envelope. Backend rejections and envelope errors come back as
// *APIError; transport failures are returned wrapped.
func (c *Client) Do(ctx context.Context, r Request) (json.RawMessage, error) {
	var body io.Reader
	if r.Body != nil {
		encoded, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, c.baseURL+r.Path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend request: %w", err)
	}
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+r.BearerToken)
	}
	if r.TenantID != "" {
		req.Header.Set("X-Tenant-ID", r.TenantID)
	}
	if r.RequestID != "" {
		req.Header.Set("X-Request-ID", r.RequestID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &APIError{Status: resp.StatusCode, Message: extractBackendError(resp.Body)}
	}

	var envelope struct {
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not decode backend response: %w", err)
	}
	if envelope.Error != "" {
		return nil, &APIError{Status: resp.StatusCode, Message: envelope.Error}
	}
	return envelope.Data, nil
}

func extractBackendError(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return "backend returned an error"
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return string(data)
}
