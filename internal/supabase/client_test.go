package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory TokenStore for tests.
type memoryStore struct {
	mu           sync.Mutex
	accessToken  string
	refreshToken string
	saves        int
	cleared      bool
}

func (m *memoryStore) Load(ctx context.Context) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accessToken, m.refreshToken, nil
}

func (m *memoryStore) Save(ctx context.Context, accessToken, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accessToken = accessToken
	m.refreshToken = refreshToken
	m.saves++
	return nil
}

func (m *memoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accessToken = ""
	m.refreshToken = ""
	m.cleared = true
	return nil
}

func newTestClient(t *testing.T, handler http.Handler, store TokenStore) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewHTTPClient(Config{
		URL:        server.URL,
		AnonKey:    "test-anon-key",
		Store:      store,
		HTTPClient: server.Client(),
	})
}

func TestSignInWithOTP_SendsMagicLinkRequest(t *testing.T) {
	var got struct {
		path       string
		redirectTo string
		apikey     string
		body       map[string]any
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.redirectTo = r.URL.Query().Get("redirect_to")
		got.apikey = r.Header.Get("apikey")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got.body))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{}"))
	})

	client := newTestClient(t, handler, nil)
	err := client.SignInWithOTP(context.Background(), "user@example.com", "http://localhost:8000/portal/auth/callback")
	require.NoError(t, err)

	assert.Equal(t, "/auth/v1/otp", got.path)
	assert.Equal(t, "http://localhost:8000/portal/auth/callback", got.redirectTo)
	assert.Equal(t, "test-anon-key", got.apikey)
	assert.Equal(t, "user@example.com", got.body["email"])
	assert.Equal(t, false, got.body["create_user"])
}

func TestSignInWithOTP_RejectionIsAuthError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"msg":"Signups not allowed for otp"}`))
	})

	client := newTestClient(t, handler, nil)
	err := client.SignInWithOTP(context.Background(), "stranger@example.com", "")
	require.Error(t, err)
	assert.True(t, IsAuth(err))
	assert.Equal(t, "Signups not allowed for otp", UserMessage(err))
}

func TestQuery_BuildsRowFilterRequest(t *testing.T) {
	var got *http.Request
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		_, _ = w.Write([]byte(`[{"id":"u1","company":"Acme"}]`))
	})

	client := newTestClient(t, handler, nil)
	payload, err := client.Query(context.Background(), "client_updates", QueryOptions{
		Columns:    "id, company",
		OrderBy:    "created_at",
		Descending: true,
		Limit:      5,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"u1","company":"Acme"}]`, string(payload))

	require.NotNil(t, got)
	assert.Equal(t, "/rest/v1/client_updates", got.URL.Path)
	assert.Equal(t, "id, company", got.URL.Query().Get("select"))
	assert.Equal(t, "created_at.desc", got.URL.Query().Get("order"))
	assert.Equal(t, "5", got.URL.Query().Get("limit"))
	assert.Equal(t, "Bearer test-anon-key", got.Header.Get("Authorization"))
}

func TestQuery_SingleObjectRequest(t *testing.T) {
	var accept string
	var filter string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		filter = r.URL.Query().Get("id")
		_, _ = w.Write([]byte(`{"id":"u1"}`))
	})

	client := newTestClient(t, handler, nil)
	_, err := client.Query(context.Background(), "profiles", QueryOptions{
		Filters: map[string]string{"id": "eq.u1"},
		Single:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.pgrst.object+json", accept)
	assert.Equal(t, "eq.u1", filter)
}

func TestQuery_MissingTableIsNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"42P01","message":"relation \"public.client_updates\" does not exist"}`))
	})

	client := newTestClient(t, handler, nil)
	_, err := client.Query(context.Background(), "client_updates", QueryOptions{})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestQuery_ZeroRowsForSingleIsNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
		_, _ = w.Write([]byte(`{"code":"PGRST116","message":"JSON object requested, multiple (or no) rows returned"}`))
	})

	client := newTestClient(t, handler, nil)
	_, err := client.Query(context.Background(), "profiles", QueryOptions{Single: true})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestInsert_SendsMinimalReturnPreference(t *testing.T) {
	var prefer string
	var body map[string]string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefer = r.Header.Get("Prefer")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
	})

	client := newTestClient(t, handler, nil)
	err := client.Insert(context.Background(), "client_updates", map[string]string{
		"company": "Acme",
		"notes":   "Renewed for another year",
	})
	require.NoError(t, err)
	assert.Equal(t, "return=minimal", prefer)
	assert.Equal(t, "Acme", body["company"])
}

func TestUpsert_SendsMergeDuplicatesPreference(t *testing.T) {
	var prefer, onConflict string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefer = r.Header.Get("Prefer")
		onConflict = r.URL.Query().Get("on_conflict")
		w.WriteHeader(http.StatusCreated)
	})

	client := newTestClient(t, handler, nil)
	err := client.Upsert(context.Background(), "profiles", "id", map[string]string{"id": "u1"})
	require.NoError(t, err)
	assert.Equal(t, "resolution=merge-duplicates,return=minimal", prefer)
	assert.Equal(t, "id", onConflict)
}

func TestSetSession_ResolvesUserAndPersists(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"u1","email":"user@example.com","user_metadata":{"name":"Pat"}}`))
	})

	store := &memoryStore{}
	client := newTestClient(t, handler, store)

	var events []AuthEvent
	client.OnAuthStateChange(func(event AuthEvent, session *Session) {
		events = append(events, event)
	})

	session, err := client.SetSession(context.Background(), "access-token", "refresh-token")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "u1", session.User.ID)
	assert.Equal(t, "user@example.com", session.User.Email)

	// Persisted for the next process start.
	assert.Equal(t, "access-token", store.accessToken)
	assert.Equal(t, "refresh-token", store.refreshToken)

	// INITIAL_SESSION at registration, then SIGNED_IN.
	require.Len(t, events, 2)
	assert.Equal(t, EventInitialSession, events[0])
	assert.Equal(t, EventSignedIn, events[1])

	// The cached session is now the current one.
	current, err := client.GetSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session, current)
}

func TestSetSession_RejectedTokenFails(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`))
	})

	client := newTestClient(t, handler, nil)
	_, err := client.SetSession(context.Background(), "bogus", "bogus")
	require.Error(t, err)
	assert.True(t, IsAuth(err))
}

func TestGetSession_RestoresPersistedTokens(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/user", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"u1","email":"user@example.com"}`))
	})

	store := &memoryStore{accessToken: "persisted-access", refreshToken: "persisted-refresh"}
	client := newTestClient(t, handler, store)

	session, err := client.GetSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "persisted-access", session.AccessToken)
	assert.Equal(t, "u1", session.User.ID)
}

func TestGetSession_EmptyStoreIsSignedOut(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})

	client := newTestClient(t, handler, &memoryStore{})
	session, err := client.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSignOut_ClearsSessionAndStore(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/user":
			_, _ = w.Write([]byte(`{"id":"u1","email":"user@example.com"}`))
		case "/auth/v1/logout":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	})

	store := &memoryStore{}
	client := newTestClient(t, handler, store)

	_, err := client.SetSession(context.Background(), "access-token", "refresh-token")
	require.NoError(t, err)

	var lastEvent AuthEvent
	client.OnAuthStateChange(func(event AuthEvent, session *Session) {
		lastEvent = event
	})

	require.NoError(t, client.SignOut(context.Background()))
	assert.True(t, store.cleared)
	assert.Equal(t, EventSignedOut, lastEvent)

	session, err := client.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestOnAuthStateChange_UnsubscribeStopsNotifications(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"u1"}`))
	})
	client := newTestClient(t, handler, nil)

	var count int
	unsubscribe := client.OnAuthStateChange(func(event AuthEvent, session *Session) {
		count++
	})
	require.Equal(t, 1, count) // initial callback

	unsubscribe()

	_, err := client.SetSession(context.Background(), "access-token", "refresh-token")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
