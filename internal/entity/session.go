package entity

// State describes the outcome of per-request identity resolution.
type State int

const (
	// StateUnauthenticated means no usable credentials accompanied the request.
	StateUnauthenticated State = iota
	// StateAuthenticated means the request carries a decoded, non-expired identity.
	StateAuthenticated
)

// Identity is the caller's decoded identity for the current request.
type Identity struct {
	UserID string
	Email  string
	Roles  []string
}

// Session is the request-scoped resolution result populated once by the
// identity middleware and read-only for downstream handlers. It is never
// cached across requests; cookies are the only durable session state.
type Session struct {
	State       State
	Identity    Identity
	AccessToken string
	TenantID    string
}

// Authenticated reports whether the session resolved to a usable identity.
func (s Session) Authenticated() bool {
	return s.State == StateAuthenticated
}

// HasRole reports whether the identity carries the given role.
func (s Session) HasRole(role string) bool {
	for _, r := range s.Identity.Roles {
		if r == role {
			return true
		}
	}
	return false
}
