// Package auth bridges the two authentication mechanisms — the template's
// legacy credential auth and the portal's Supabase auth — behind one
// AuthUser shape, so consuming views never need to know which mechanism
// produced the active session.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/adminkit/portal-core/internal/legacy"
	"github.com/adminkit/portal-core/internal/supabase"
)

// Provider names the mechanism that authenticated the user.
type Provider string

const (
	ProviderLegacy   Provider = "legacy"
	ProviderSupabase Provider = "supabase"
)

// AuthUser is the normalized view of an authenticated user.
type AuthUser struct {
	ID       string   `json:"id"`
	Email    string   `json:"email,omitempty"`
	Name     string   `json:"name,omitempty"`
	Avatar   string   `json:"avatar,omitempty"`
	Provider Provider `json:"provider"`
}

// ErrAuthRequired is returned by RequireAuth when no user is present.
var ErrAuthRequired = fmt.Errorf("authentication required")

// Adapter resolves the current user. With the portal feature disabled it is
// inert and always reports no user; otherwise it consults the backend
// session and treats any failure as "not authenticated" rather than an
// error worth crashing over.
type Adapter struct {
	enabled bool
	client  supabase.Client
}

func NewAdapter(enabled bool, client supabase.Client) *Adapter {
	return &Adapter{enabled: enabled, client: client}
}

// CurrentUser returns the authenticated user, or nil.
func (a *Adapter) CurrentUser(ctx context.Context) *AuthUser {
	if !a.enabled {
		return nil
	}

	session, err := a.client.GetSession(ctx)
	if err != nil {
		slog.Warn("supabase auth check failed", "error", err)
		return nil
	}
	if session == nil || session.User == nil {
		return nil
	}
	return FromSupabaseUser(session.User)
}

// IsAuthenticated reports whether a user is present.
func (a *Adapter) IsAuthenticated(ctx context.Context) bool {
	return a.CurrentUser(ctx) != nil
}

// RequireAuth returns the current user or ErrAuthRequired.
func (a *Adapter) RequireAuth(ctx context.Context) (*AuthUser, error) {
	user := a.CurrentUser(ctx)
	if user == nil {
		return nil, ErrAuthRequired
	}
	return user, nil
}

// FromSupabaseUser normalizes a backend user. The display name falls back to
// the email when the metadata carries none.
func FromSupabaseUser(user *supabase.User) *AuthUser {
	name, _ := user.UserMetadata["name"].(string)
	if name == "" {
		name = user.Email
	}
	avatar, _ := user.UserMetadata["avatar_url"].(string)

	return &AuthUser{
		ID:       user.ID,
		Email:    user.Email,
		Name:     name,
		Avatar:   avatar,
		Provider: ProviderSupabase,
	}
}

// FromLegacyUser normalizes a legacy session user.
func FromLegacyUser(user *legacy.UserData) *AuthUser {
	name := user.FullName
	if name == "" {
		name = user.Username
	}
	return &AuthUser{
		ID:       user.ID,
		Email:    user.Email,
		Name:     name,
		Provider: ProviderLegacy,
	}
}
