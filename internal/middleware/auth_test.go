package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adminkit/portal-core/internal/auth"
	"github.com/adminkit/portal-core/internal/session"
	"github.com/adminkit/portal-core/internal/supabase"
)

func startedProvider(t *testing.T, client supabase.Client) *session.Provider {
	t.Helper()
	provider := session.NewProvider(client)
	provider.Start(context.Background())
	t.Cleanup(provider.Stop)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !provider.Current().Loading {
			return provider
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("provider never left the loading state")
	return nil
}

func gateRequest(t *testing.T, provider *session.Provider, target string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var reached bool
	handler := RequireSupabaseAuth(provider, "/portal/auth/signin")(func(c echo.Context) error {
		reached = true
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, handler(c))
	return rec, reached
}

func TestRequireSupabaseAuth_LoadingRendersPlaceholder(t *testing.T) {
	// Never started, so the provider stays in the loading state.
	provider := session.NewProvider(&supabase.Fake{})

	rec, reached := gateRequest(t, provider, "/portal")
	assert.False(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http-equiv=\"refresh\"")
}

func TestRequireSupabaseAuth_SignedOutRedirects(t *testing.T) {
	provider := startedProvider(t, &supabase.Fake{})

	rec, reached := gateRequest(t, provider, "/portal/updates?from=nav")
	assert.False(t, reached)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t,
		"/portal/auth/signin?redirect_url=%2Fportal%2Fupdates%3Ffrom%3Dnav",
		rec.Header().Get(echo.HeaderLocation))
}

func TestRequireSupabaseAuth_SignedInPassesThrough(t *testing.T) {
	fake := &supabase.Fake{
		GetSessionFunc: func(ctx context.Context) (*supabase.Session, error) {
			return &supabase.Session{
				AccessToken: "access",
				User:        &supabase.User{ID: "u1", Email: "user@example.com"},
			}, nil
		},
	}
	provider := startedProvider(t, fake)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/portal", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequireSupabaseAuth(provider, "/portal/auth/signin")(func(c echo.Context) error {
		user, ok := auth.GetUser(c)
		require.True(t, ok)
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, auth.ProviderSupabase, user.Provider)
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireSupabaseAuth_SignOutNotificationClosesGate(t *testing.T) {
	fake := &supabase.Fake{
		GetSessionFunc: func(ctx context.Context) (*supabase.Session, error) {
			return &supabase.Session{
				AccessToken: "access",
				User:        &supabase.User{ID: "u1"},
			}, nil
		},
	}
	provider := startedProvider(t, fake)

	_, reached := gateRequest(t, provider, "/portal")
	require.True(t, reached)

	fake.Emit(supabase.EventSignedOut, nil)

	rec, reached := gateRequest(t, provider, "/portal")
	assert.False(t, reached)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestLoadAuthContext_NoUser(t *testing.T) {
	adapter := auth.NewAdapter(true, &supabase.Fake{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := LoadAuthContext(adapter, nil)(func(c echo.Context) error {
		_, ok := auth.GetUser(c)
		assert.False(t, ok)
		assert.False(t, auth.IsAuthenticated(c))
		return nil
	})
	require.NoError(t, handler(c))
}

func TestLoadAuthContext_SupabaseUser(t *testing.T) {
	fake := &supabase.Fake{
		GetSessionFunc: func(ctx context.Context) (*supabase.Session, error) {
			return &supabase.Session{
				AccessToken: "access",
				User:        &supabase.User{ID: "u1", Email: "user@example.com"},
			}, nil
		},
	}
	adapter := auth.NewAdapter(true, fake)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := LoadAuthContext(adapter, nil)(func(c echo.Context) error {
		user, ok := auth.GetUser(c)
		require.True(t, ok)
		assert.Equal(t, "u1", user.ID)
		assert.True(t, auth.IsAuthenticated(c))
		return nil
	})
	require.NoError(t, handler(c))
}
