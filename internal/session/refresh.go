package session

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"

	"github.com/octobees/identity-console/api/internal/entity"
)

// TokenRefresher mints a new token pair from a refresh token.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (entity.TokenPair, error)
}

// Refresher wraps the backend refresh call and coalesces concurrent attempts
// for the same refresh token. Two tabs racing on one expired session produce a
// single backend refresh; rotation-strict backends reject the second call
// otherwise, which would force a spurious re-login.
type Refresher struct {
	backend TokenRefresher
	group   singleflight.Group
}

// NewRefresher constructs a Refresher over the backend client.
func NewRefresher(backend TokenRefresher) *Refresher {
	return &Refresher{backend: backend}
}

// Refresh exchanges the refresh token for a new pair. Every failure mode —
// rejection, network error, malformed response — comes back as *AuthError.
// Retrying is the caller's decision; no retry happens here.
func (r *Refresher) Refresh(ctx context.Context, refreshToken string) (entity.TokenPair, error) {
	if refreshToken == "" {
		return entity.TokenPair{}, &AuthError{Err: errors.New("missing refresh token")}
	}

	v, err, _ := r.group.Do(refreshToken, func() (any, error) {
		return r.backend.Refresh(ctx, refreshToken)
	})
	if err != nil {
		return entity.TokenPair{}, &AuthError{Err: err}
	}
	return v.(entity.TokenPair), nil
}
