package legacy

import (
	"encoding/gob"
	"fmt"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
)

const (
	sessionName = "portal_admin_session"
	userKey     = "user"
)

// Manager manages legacy cookie sessions.
type Manager struct {
	store sessions.Store
}

// NewManager creates a session manager backed by a signed cookie store.
func NewManager(secret string) *Manager {
	gob.Register(&UserData{})

	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: 2,     // Lax mode
	}

	return &Manager{store: store}
}

// CreateSession stores user data in a new cookie session.
func (m *Manager) CreateSession(c echo.Context, user *UserData) error {
	session, err := m.store.Get(c.Request(), sessionName)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	session.Values[userKey] = user

	if err := session.Save(c.Request(), c.Response()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession retrieves user data from the cookie session.
func (m *Manager) GetSession(c echo.Context) (*UserData, error) {
	session, err := m.store.Get(c.Request(), sessionName)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	userData, ok := session.Values[userKey].(*UserData)
	if !ok || userData == nil {
		return nil, fmt.Errorf("no user data in session")
	}
	return userData, nil
}

// DestroySession clears the cookie session.
func (m *Manager) DestroySession(c echo.Context) error {
	session, err := m.store.Get(c.Request(), sessionName)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	session.Options.MaxAge = -1
	delete(session.Values, userKey)

	if err := session.Save(c.Request(), c.Response()); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
