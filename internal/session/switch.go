package session

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/octobees/identity-console/api/internal/apiclient"
	"github.com/octobees/identity-console/api/internal/entity"
)

// ContextSwitcher is the backend surface used for persona and POA switches.
type ContextSwitcher interface {
	SwitchContext(ctx context.Context, auth apiclient.Auth, target entity.SwitchTarget) (string, error)
	SwitchBack(ctx context.Context, auth apiclient.Auth) (string, error)
}

// Manager swaps the active access token for persona assumption and
// power-of-attorney delegation, preserving the original token so it can be
// restored. Cookie writes happen only after the backend call succeeds; a
// failed switch leaves the session untouched.
type Manager struct {
	backend ContextSwitcher
	cookies *Store
}

// NewManager constructs a Manager.
func NewManager(backend ContextSwitcher, cookies *Store) *Manager {
	return &Manager{backend: backend, cookies: cookies}
}

// Switch mints a context-scoped access token and installs it as the active
// one, keeping the current token in the original_access_token cookie. A
// second switch while one is active is rejected so the true original is never
// clobbered.
func (m *Manager) Switch(ctx context.Context, c echo.Context, auth apiclient.Auth, target entity.SwitchTarget) error {
	if auth.BearerToken == "" {
		return ErrUnauthenticated
	}
	if m.cookies.OriginalToken(c) != "" {
		return ErrAlreadySwitched
	}

	minted, err := m.backend.SwitchContext(ctx, auth, target)
	if err != nil {
		return err
	}

	m.cookies.SetOriginalToken(c, auth.BearerToken)
	m.cookies.SetAccessToken(c, minted)
	return nil
}

// SwitchBack ends the assumed context. The preserved original token wins over
// whatever the backend returns; backends that return no token on drop are
// tolerated. Afterwards no original_access_token cookie remains, restoring
// the not-switched invariant.
func (m *Manager) SwitchBack(ctx context.Context, c echo.Context, auth apiclient.Auth) error {
	if auth.BearerToken == "" {
		return ErrUnauthenticated
	}

	returned, err := m.backend.SwitchBack(ctx, auth)
	if err != nil {
		return err
	}

	if original := m.cookies.OriginalToken(c); original != "" {
		m.cookies.SetAccessToken(c, original)
		m.cookies.DeleteOriginalToken(c)
		return nil
	}

	if returned != "" {
		m.cookies.SetAccessToken(c, returned)
	}
	return nil
}
