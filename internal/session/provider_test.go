package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adminkit/portal-core/internal/supabase"
)

func waitForLoaded(t *testing.T, p *Provider) State {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if state := p.Current(); !state.Loading {
			return state
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("provider never left the loading state")
	return State{}
}

func TestProvider_StartsLoading(t *testing.T) {
	provider := NewProvider(&supabase.Fake{})
	state := provider.Current()
	assert.True(t, state.Loading)
	assert.Nil(t, state.User)
	assert.Nil(t, state.Session)
}

func TestProvider_BootstrapResolvesSession(t *testing.T) {
	session := &supabase.Session{
		AccessToken: "access",
		User:        &supabase.User{ID: "u1", Email: "user@example.com"},
	}
	fake := &supabase.Fake{
		GetSessionFunc: func(ctx context.Context) (*supabase.Session, error) {
			return session, nil
		},
	}

	provider := NewProvider(fake)
	provider.Start(context.Background())
	defer provider.Stop()

	state := waitForLoaded(t, provider)
	require.NotNil(t, state.User)
	assert.Equal(t, "u1", state.User.ID)
	assert.Equal(t, session, state.Session)
}

func TestProvider_BootstrapFailureStillLeavesLoading(t *testing.T) {
	fake := &supabase.Fake{
		GetSessionFunc: func(ctx context.Context) (*supabase.Session, error) {
			return nil, supabase.NewError(supabase.KindNetwork, "auth.session", "backend unreachable")
		},
	}

	provider := NewProvider(fake)
	provider.Start(context.Background())
	defer provider.Stop()

	state := waitForLoaded(t, provider)
	assert.Nil(t, state.User)
	assert.Nil(t, state.Session)
}

func TestProvider_NotificationReplacesSession(t *testing.T) {
	fake := &supabase.Fake{}
	provider := NewProvider(fake)
	provider.Start(context.Background())
	defer provider.Stop()
	waitForLoaded(t, provider)

	first := &supabase.Session{AccessToken: "one", User: &supabase.User{ID: "u1"}}
	second := &supabase.Session{AccessToken: "two", User: &supabase.User{ID: "u1"}}

	fake.Emit(supabase.EventSignedIn, first)
	assert.Equal(t, first, provider.Current().Session)

	// Last write wins, no merging.
	fake.Emit(supabase.EventTokenRefreshed, second)
	assert.Equal(t, second, provider.Current().Session)

	fake.Emit(supabase.EventSignedOut, nil)
	state := provider.Current()
	assert.Nil(t, state.Session)
	assert.Nil(t, state.User)
}

func TestProvider_NotificationsAfterStopAreIgnored(t *testing.T) {
	fake := &supabase.Fake{}
	provider := NewProvider(fake)
	provider.Start(context.Background())
	waitForLoaded(t, provider)

	signed := &supabase.Session{AccessToken: "one", User: &supabase.User{ID: "u1"}}
	fake.Emit(supabase.EventSignedIn, signed)
	require.NotNil(t, provider.Current().Session)

	provider.Stop()

	fake.Emit(supabase.EventSignedOut, nil)
	assert.Equal(t, signed, provider.Current().Session, "post-stop notification must not mutate state")
}

func TestProvider_StopIsIdempotent(t *testing.T) {
	provider := NewProvider(&supabase.Fake{})
	provider.Start(context.Background())
	provider.Stop()
	provider.Stop()
}

func TestProvider_StartTwiceIsNoop(t *testing.T) {
	var fetches int
	fake := &supabase.Fake{
		GetSessionFunc: func(ctx context.Context) (*supabase.Session, error) {
			fetches++
			return nil, nil
		},
	}
	provider := NewProvider(fake)

	provider.Start(context.Background())
	provider.Start(context.Background())
	defer provider.Stop()
	waitForLoaded(t, provider)

	assert.Equal(t, 1, fetches)
}
