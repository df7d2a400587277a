// Package session holds the process-wide view of the operator's backend
// session: a provider that bootstraps it, tracks change notifications, and a
// store that persists the token pair.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/adminkit/portal-core/internal/supabase"
)

// State is the read-only session snapshot handed to consumers. Loading is
// true until the initial fetch settles, successfully or not.
type State struct {
	User    *supabase.User
	Session *supabase.Session
	Loading bool
}

// Provider owns at most one active backend session. Start fetches the
// current session and subscribes to change notifications; every notification
// fully replaces the cached pair (last write wins, no merging). Stop releases
// the subscription exactly once, and notifications arriving after Stop are
// ignored.
//
// Consumers receive the provider by reference; there is no ambient lookup.
type Provider struct {
	client supabase.Client

	mu          sync.RWMutex
	state       State
	active      bool
	started     bool
	unsubscribe func()

	stopOnce sync.Once
}

// NewProvider creates a provider in the loading state. Call Start to begin
// the session bootstrap.
func NewProvider(client supabase.Client) *Provider {
	return &Provider{
		client: client,
		state:  State{Loading: true},
		active: true,
	}
}

// Start registers the change subscription and kicks off the initial session
// fetch in the background. Calling Start more than once is a no-op.
func (p *Provider) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	// The subscription may fire synchronously, so it is registered outside
	// the provider lock.
	unsubscribe := p.client.OnAuthStateChange(p.apply)

	p.mu.Lock()
	p.unsubscribe = unsubscribe
	stopped := !p.active
	p.mu.Unlock()
	if stopped {
		unsubscribe()
		return
	}

	go p.bootstrap(ctx)
}

// bootstrap resolves the initial session. Whatever happens, the provider
// leaves the loading state: a fetch failure must not leave the auth gate
// stuck on the placeholder.
func (p *Provider) bootstrap(ctx context.Context) {
	session, err := p.client.GetSession(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return
	}
	if err != nil {
		slog.Error("session bootstrap failed", "error", err)
	} else {
		p.state.Session = session
		p.state.User = userOf(session)
	}
	p.state.Loading = false
}

// apply records a change notification, overwriting the cached pair.
func (p *Provider) apply(event supabase.AuthEvent, session *supabase.Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return
	}
	if event == supabase.EventInitialSession && session == nil && p.state.Loading {
		// The synchronous registration callback; the bootstrap fetch owns
		// the initial value.
		return
	}
	p.state.Session = session
	p.state.User = userOf(session)
}

// Stop releases the change subscription. Idempotent.
func (p *Provider) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.active = false
		unsubscribe := p.unsubscribe
		p.mu.Unlock()
		if unsubscribe != nil {
			unsubscribe()
		}
	})
}

// Current returns the latest snapshot.
func (p *Provider) Current() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func userOf(session *supabase.Session) *supabase.User {
	if session == nil {
		return nil
	}
	return session.User
}
