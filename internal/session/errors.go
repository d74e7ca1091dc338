package session

import "errors"

var (
	// ErrAlreadySwitched is returned when a context switch is attempted while
	// one is already active. Nested switches would lose the true original
	// token, so they are rejected.
	ErrAlreadySwitched = errors.New("an identity context switch is already active")
	// ErrUnauthenticated is returned when a switch operation is attempted
	// without an active access token.
	ErrUnauthenticated = errors.New("request is not authenticated")
)

// AuthError marks a failed token refresh: the backend rejected the refresh
// token or the call never completed. Callers treat both the same way.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return "session refresh failed: " + e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
