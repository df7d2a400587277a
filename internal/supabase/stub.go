package supabase

import (
	"context"
	"encoding/json"
)

// Stub is the backend client used when credentials are absent. Every
// operation resolves immediately: reads report a signed-out state and writes
// report a configuration error. Nothing hangs and nothing panics, so the
// application stays usable without real credentials.
type Stub struct{}

// NewStub creates the offline backend client.
func NewStub() *Stub { return &Stub{} }

func (s *Stub) Configured() bool { return false }

func (s *Stub) GetSession(ctx context.Context) (*Session, error) {
	return nil, nil
}

func (s *Stub) SetSession(ctx context.Context, accessToken, refreshToken string) (*Session, error) {
	return nil, errNotConfigured("auth.set_session")
}

func (s *Stub) SignInWithOTP(ctx context.Context, email, redirectTo string) error {
	return errNotConfigured("auth.otp")
}

func (s *Stub) SignOut(ctx context.Context) error {
	return nil
}

func (s *Stub) OnAuthStateChange(fn func(AuthEvent, *Session)) func() {
	fn(EventInitialSession, nil)
	return func() {}
}

func (s *Stub) Query(ctx context.Context, table string, opts QueryOptions) (json.RawMessage, error) {
	return nil, errNotConfigured("rest.query")
}

func (s *Stub) Insert(ctx context.Context, table string, record any) error {
	return errNotConfigured("rest.insert")
}

func (s *Stub) Upsert(ctx context.Context, table, onConflict string, record any) error {
	return errNotConfigured("rest.upsert")
}
