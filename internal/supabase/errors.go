package supabase

import (
	"errors"
	"fmt"
)

// Kind classifies a backend failure so each caller can pick its own
// fallback instead of relying on silent suppression.
type Kind int

const (
	// KindConfiguration means the backend credentials are missing; the
	// operation can never succeed in this process.
	KindConfiguration Kind = iota
	// KindNetwork covers transport failures and unexpected server errors.
	KindNetwork
	// KindAuth means the backend rejected the caller's identity or request,
	// e.g. a magic link for an uninvited email.
	KindAuth
	// KindNotFound covers missing rows and unprovisioned tables.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is a classified backend failure.
type Error struct {
	Kind    Kind
	Op      string // e.g. "auth.otp", "rest.query"
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("supabase: %s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("supabase: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("supabase: %s: %s error", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// NewError builds a classified error. Mainly useful to fakes in tests.
func NewError(kind Kind, op, message string) *Error {
	return newError(kind, op, message, nil)
}

func errNotConfigured(op string) *Error {
	return newError(KindConfiguration, op,
		"supabase is not configured: set SUPABASE_URL and SUPABASE_ANON_KEY in .env.local", nil)
}

func kindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsConfiguration reports whether err is a missing-credentials failure.
func IsConfiguration(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindConfiguration
}

// IsNetwork reports whether err is a transport or server failure.
func IsNetwork(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindNetwork
}

// IsAuth reports whether the backend rejected the request's identity.
func IsAuth(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindAuth
}

// IsNotFound reports whether the target row or table does not exist.
func IsNotFound(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindNotFound
}

// UserMessage extracts the backend-provided message when there is one, so
// forms can surface it inline.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
