package supabase

import (
	"context"
	"encoding/json"
	"sync"
)

// Fake is a scriptable in-memory Client for tests in other packages. Each
// function field overrides the matching operation; unset operations behave
// like a signed-out, configured backend.
type Fake struct {
	GetSessionFunc    func(ctx context.Context) (*Session, error)
	SetSessionFunc    func(ctx context.Context, accessToken, refreshToken string) (*Session, error)
	SignInWithOTPFunc func(ctx context.Context, email, redirectTo string) error
	SignOutFunc       func(ctx context.Context) error
	QueryFunc         func(ctx context.Context, table string, opts QueryOptions) (json.RawMessage, error)
	InsertFunc        func(ctx context.Context, table string, record any) error
	UpsertFunc        func(ctx context.Context, table, onConflict string, record any) error

	mu        sync.Mutex
	listeners []func(AuthEvent, *Session)
}

func (f *Fake) Configured() bool { return true }

func (f *Fake) GetSession(ctx context.Context) (*Session, error) {
	if f.GetSessionFunc != nil {
		return f.GetSessionFunc(ctx)
	}
	return nil, nil
}

func (f *Fake) SetSession(ctx context.Context, accessToken, refreshToken string) (*Session, error) {
	if f.SetSessionFunc != nil {
		return f.SetSessionFunc(ctx, accessToken, refreshToken)
	}
	return nil, nil
}

func (f *Fake) SignInWithOTP(ctx context.Context, email, redirectTo string) error {
	if f.SignInWithOTPFunc != nil {
		return f.SignInWithOTPFunc(ctx, email, redirectTo)
	}
	return nil
}

func (f *Fake) SignOut(ctx context.Context) error {
	if f.SignOutFunc != nil {
		return f.SignOutFunc(ctx)
	}
	return nil
}

func (f *Fake) OnAuthStateChange(fn func(AuthEvent, *Session)) func() {
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
	fn(EventInitialSession, nil)
	return func() {}
}

// Emit delivers a change notification to every registered listener.
func (f *Fake) Emit(event AuthEvent, session *Session) {
	f.mu.Lock()
	fns := append([]func(AuthEvent, *Session){}, f.listeners...)
	f.mu.Unlock()
	for _, fn := range fns {
		fn(event, session)
	}
}

func (f *Fake) Query(ctx context.Context, table string, opts QueryOptions) (json.RawMessage, error) {
	if f.QueryFunc != nil {
		return f.QueryFunc(ctx, table, opts)
	}
	return json.RawMessage("[]"), nil
}

func (f *Fake) Insert(ctx context.Context, table string, record any) error {
	if f.InsertFunc != nil {
		return f.InsertFunc(ctx, table, record)
	}
	return nil
}

func (f *Fake) Upsert(ctx context.Context, table, onConflict string, record any) error {
	if f.UpsertFunc != nil {
		return f.UpsertFunc(ctx, table, onConflict, record)
	}
	return nil
}
