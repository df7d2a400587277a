package supabase

import (
	"context"
	"encoding/json"
	"time"
)

// AuthEvent identifies a change in the auth session, mirroring the event
// names the hosted backend uses.
type AuthEvent string

const (
	EventInitialSession AuthEvent = "INITIAL_SESSION"
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

// User is the subset of the backend's user record this application consumes.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// Session is the token bundle issued by the backend. The backend owns its
// validity; this is a cached local copy.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *User     `json:"user"`
}

// Expired reports whether the access token is past (or within margin of) its
// expiry. A zero ExpiresAt means the expiry is unknown and the token is
// treated as live.
func (s *Session) Expired(margin time.Duration) bool {
	if s == nil || s.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().Add(margin).After(s.ExpiresAt)
}

// QueryOptions shapes a row read against a named table.
type QueryOptions struct {
	// Columns is the projection, e.g. "id, company, notes, created_at".
	// Empty selects everything.
	Columns string
	// OrderBy names the sort column; Descending flips the direction.
	OrderBy    string
	Descending bool
	// Limit caps the number of rows; zero means no limit.
	Limit int
	// Filters maps column name to a PostgREST operator expression,
	// e.g. {"id": "eq.abc"}.
	Filters map[string]string
	// Single requests exactly one row; zero rows is a not-found error.
	Single bool
}

// Client is the capability handle to the hosted auth + database backend.
// Exactly one implementation is selected at startup: the HTTP client when
// credentials are present, otherwise the stub.
type Client interface {
	// Configured reports whether this client can reach a real backend.
	Configured() bool

	// GetSession returns the current session, or nil when signed out.
	GetSession(ctx context.Context) (*Session, error)

	// SetSession installs the token pair delivered by a magic-link redirect
	// and resolves the user behind it.
	SetSession(ctx context.Context, accessToken, refreshToken string) (*Session, error)

	// SignInWithOTP asks the backend to email a magic link. Unknown emails
	// are rejected because user creation is disabled.
	SignInWithOTP(ctx context.Context, email, redirectTo string) error

	// SignOut revokes and forgets the current session.
	SignOut(ctx context.Context) error

	// OnAuthStateChange registers a listener for session changes. The
	// listener is invoked once synchronously with the current session and
	// the returned function removes it.
	OnAuthStateChange(fn func(event AuthEvent, session *Session)) (unsubscribe func())

	// Query reads rows from a named table and returns the raw JSON payload
	// for the caller to decode.
	Query(ctx context.Context, table string, opts QueryOptions) (json.RawMessage, error)

	// Insert adds a single record to a named table.
	Insert(ctx context.Context, table string, record any) error

	// Upsert inserts or merges a record keyed by the onConflict column.
	Upsert(ctx context.Context, table, onConflict string, record any) error
}

// TokenStore persists the session token pair so a sign-in survives process
// restarts, the way the browser client persists to local storage.
type TokenStore interface {
	Load(ctx context.Context) (accessToken, refreshToken string, err error)
	Save(ctx context.Context, accessToken, refreshToken string) error
	Clear(ctx context.Context) error
}
