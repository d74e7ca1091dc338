package entity

// Switch kinds accepted by the backend context-switch endpoint.
const (
	SwitchTypePersona = "persona"
	SwitchTypePOA     = "poa"
)

// SwitchTarget identifies the persona or power-of-attorney context a user
// wants to act under.
type SwitchTarget struct {
	Type     string `json:"type"`
	TargetID string `json:"target_id"`
	TenantID string `json:"tenant_id,omitempty"`
}

// AssumptionState reports whether the caller is currently acting under an
// assumed persona or POA context, as seen by the backend.
type AssumptionState struct {
	Active   bool   `json:"active"`
	Type     string `json:"type,omitempty"`
	TargetID string `json:"target_id,omitempty"`
}
