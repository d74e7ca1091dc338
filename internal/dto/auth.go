package dto

import "encoding/json"

// LoginRequest captures credential input.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TenantID string `json:"tenant_id"`
}

// SwitchRequest names the persona or POA context to assume.
type SwitchRequest struct {
	Type     string `json:"type"`
	TargetID string `json:"target_id"`
	TenantID string `json:"tenant_id"`
}

// SessionResponse describes the caller's resolved identity.
type SessionResponse struct {
	UserID   string   `json:"user_id"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	TenantID string   `json:"tenant_id,omitempty"`
	Switched bool     `json:"switched"`
}

// OverviewResponse aggregates the best-effort console context loaded for the
// outer layout.
type OverviewResponse struct {
	AlertsCount    int             `json:"alerts_count"`
	Assumption     AssumptionInfo  `json:"assumption"`
	PersonaContext json.RawMessage `json:"persona_context,omitempty"`
}

// AssumptionInfo mirrors the backend's assumed-context status.
type AssumptionInfo struct {
	Active   bool   `json:"active"`
	Type     string `json:"type,omitempty"`
	TargetID string `json:"target_id,omitempty"`
}
