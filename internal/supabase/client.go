package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// refreshMargin is how long before access-token expiry a refresh is
// scheduled, matching the browser client's early-refresh behavior.
const refreshMargin = 30 * time.Second

// Config selects and configures the backend client.
type Config struct {
	URL     string
	AnonKey string
	// Store persists the token pair across restarts. Optional; nil keeps the
	// session in memory only.
	Store TokenStore
	// HTTPClient overrides the default transport, mainly for tests.
	HTTPClient *http.Client
}

// New returns the backend client capability. With both credentials present it
// is the real HTTP client; otherwise the non-throwing stub, so local
// development without credentials never crashes or hangs.
func New(cfg Config) Client {
	if cfg.URL == "" || cfg.AnonKey == "" {
		slog.Warn("supabase is not configured, using stub client; set SUPABASE_URL and SUPABASE_ANON_KEY in .env.local")
		return NewStub()
	}
	return NewHTTPClient(cfg)
}

// HTTPClient talks to the hosted backend's auth (/auth/v1) and row
// (/rest/v1) APIs. It caches at most one session, persists it through the
// token store, and refreshes it shortly before expiry.
type HTTPClient struct {
	baseURL string
	anonKey string
	http    *http.Client
	store   TokenStore

	mu           sync.Mutex
	session      *Session
	restored     bool
	listeners    map[int]func(AuthEvent, *Session)
	nextListener int
	refreshTimer *time.Timer
}

// NewHTTPClient creates the real backend client. Use New unless the caller
// has already decided credentials are present.
func NewHTTPClient(cfg Config) *HTTPClient {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPClient{
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		anonKey:   cfg.AnonKey,
		http:      hc,
		store:     cfg.Store,
		listeners: map[int]func(AuthEvent, *Session){},
	}
}

func (c *HTTPClient) Configured() bool { return true }

// GetSession returns the current session, restoring the persisted token pair
// on first use and refreshing an expired access token. A signed-out state is
// (nil, nil).
func (c *HTTPClient) GetSession(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.restoreLocked(ctx); err != nil {
		return nil, err
	}
	if c.session == nil {
		return nil, nil
	}
	if c.session.Expired(refreshMargin) {
		if err := c.refreshLocked(ctx); err != nil {
			return nil, err
		}
	}
	return c.session, nil
}

// SetSession installs a token pair captured from the magic-link redirect,
// resolving the user behind the access token.
func (c *HTTPClient) SetSession(ctx context.Context, accessToken, refreshToken string) (*Session, error) {
	user, err := c.fetchUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	session := &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresAt:    tokenExpiry(accessToken),
		User:         user,
	}

	c.mu.Lock()
	c.restored = true
	c.session = session
	c.persistLocked(ctx)
	c.scheduleRefreshLocked()
	c.mu.Unlock()

	c.emit(EventSignedIn, session)
	return session, nil
}

func (c *HTTPClient) SignInWithOTP(ctx context.Context, email, redirectTo string) error {
	endpoint := c.baseURL + "/auth/v1/otp"
	if redirectTo != "" {
		endpoint += "?redirect_to=" + url.QueryEscape(redirectTo)
	}

	body := map[string]any{
		"email":       email,
		"create_user": false,
	}
	resp, err := c.do(ctx, http.MethodPost, endpoint, "", body, nil)
	if err != nil {
		return newError(KindNetwork, "auth.otp", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.errorFromResponse("auth.otp", resp)
	}
	return nil
}

func (c *HTTPClient) SignOut(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.session = nil
	c.restored = true
	if c.refreshTimer != nil {
		c.refreshTimer.Stop()
		c.refreshTimer = nil
	}
	if c.store != nil {
		if err := c.store.Clear(ctx); err != nil {
			slog.Warn("failed to clear persisted session", "error", err)
		}
	}
	c.mu.Unlock()

	// Best-effort revocation; the local state is already cleared.
	if session != nil {
		resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", session.AccessToken, nil, nil)
		if err != nil {
			slog.Warn("sign-out revocation failed", "error", err)
		} else {
			resp.Body.Close()
		}
	}

	c.emit(EventSignedOut, nil)
	return nil
}

func (c *HTTPClient) OnAuthStateChange(fn func(AuthEvent, *Session)) func() {
	c.mu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	current := c.session
	c.mu.Unlock()

	fn(EventInitialSession, current)

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *HTTPClient) Query(ctx context.Context, table string, opts QueryOptions) (json.RawMessage, error) {
	values := url.Values{}
	if opts.Columns != "" {
		values.Set("select", opts.Columns)
	}
	if opts.OrderBy != "" {
		direction := "asc"
		if opts.Descending {
			direction = "desc"
		}
		values.Set("order", opts.OrderBy+"."+direction)
	}
	if opts.Limit > 0 {
		values.Set("limit", strconv.Itoa(opts.Limit))
	}
	for column, expr := range opts.Filters {
		values.Set(column, expr)
	}

	endpoint := c.baseURL + "/rest/v1/" + url.PathEscape(table)
	if encoded := values.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	headers := http.Header{}
	if opts.Single {
		headers.Set("Accept", "application/vnd.pgrst.object+json")
	}

	resp, err := c.do(ctx, http.MethodGet, endpoint, c.bearerToken(), nil, headers)
	if err != nil {
		return nil, newError(KindNetwork, "rest.query", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, c.errorFromResponse("rest.query", resp)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(KindNetwork, "rest.query", "", err)
	}
	return payload, nil
}

func (c *HTTPClient) Insert(ctx context.Context, table string, record any) error {
	return c.write(ctx, "rest.insert", c.baseURL+"/rest/v1/"+url.PathEscape(table), record, "return=minimal")
}

func (c *HTTPClient) Upsert(ctx context.Context, table, onConflict string, record any) error {
	endpoint := c.baseURL + "/rest/v1/" + url.PathEscape(table) + "?on_conflict=" + url.QueryEscape(onConflict)
	return c.write(ctx, "rest.upsert", endpoint, record, "resolution=merge-duplicates,return=minimal")
}

func (c *HTTPClient) write(ctx context.Context, op, endpoint string, record any, prefer string) error {
	headers := http.Header{}
	headers.Set("Prefer", prefer)

	resp, err := c.do(ctx, http.MethodPost, endpoint, c.bearerToken(), record, headers)
	if err != nil {
		return newError(KindNetwork, op, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.errorFromResponse(op, resp)
	}
	return nil
}

// bearerToken returns the session access token when signed in, falling back
// to the anon key the way the browser client does.
func (c *HTTPClient) bearerToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil && !c.session.Expired(0) {
		return c.session.AccessToken
	}
	return c.anonKey
}

// restoreLocked loads the persisted token pair once per process. A restore
// failure is logged and treated as signed out rather than wedging startup.
func (c *HTTPClient) restoreLocked(ctx context.Context) error {
	if c.restored {
		return nil
	}
	c.restored = true
	if c.store == nil {
		return nil
	}

	accessToken, refreshToken, err := c.store.Load(ctx)
	if err != nil {
		slog.Warn("failed to load persisted session", "error", err)
		return nil
	}
	if refreshToken == "" {
		return nil
	}

	c.session = &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresAt:    tokenExpiry(accessToken),
	}

	if c.session.Expired(refreshMargin) {
		if err := c.refreshLocked(ctx); err != nil {
			slog.Warn("failed to refresh persisted session", "error", err)
			c.session = nil
			return nil
		}
		return nil
	}

	user, err := c.fetchUser(ctx, accessToken)
	if err != nil {
		slog.Warn("persisted session rejected by backend", "error", err)
		c.session = nil
		return nil
	}
	c.session.User = user
	c.scheduleRefreshLocked()
	return nil
}

// refreshLocked exchanges the refresh token for a new session. On rejection
// the local session is cleared; the operator signs in again.
func (c *HTTPClient) refreshLocked(ctx context.Context) error {
	if c.session == nil || c.session.RefreshToken == "" {
		return nil
	}

	endpoint := c.baseURL + "/auth/v1/token?grant_type=refresh_token"
	body := map[string]string{"refresh_token": c.session.RefreshToken}

	resp, err := c.do(ctx, http.MethodPost, endpoint, "", body, nil)
	if err != nil {
		return newError(KindNetwork, "auth.refresh", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		refreshErr := c.errorFromResponse("auth.refresh", resp)
		c.session = nil
		if c.store != nil {
			if err := c.store.Clear(ctx); err != nil {
				slog.Warn("failed to clear persisted session", "error", err)
			}
		}
		return refreshErr
	}

	var grant struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
		ExpiresIn    int64  `json:"expires_in"`
		User         *User  `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return newError(KindNetwork, "auth.refresh", "", err)
	}

	expiresAt := tokenExpiry(grant.AccessToken)
	if expiresAt.IsZero() && grant.ExpiresIn > 0 {
		expiresAt = time.Now().Add(time.Duration(grant.ExpiresIn) * time.Second)
	}

	user := grant.User
	if user == nil && c.session != nil {
		user = c.session.User
	}

	c.session = &Session{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		TokenType:    grant.TokenType,
		ExpiresAt:    expiresAt,
		User:         user,
	}
	c.persistLocked(ctx)
	c.scheduleRefreshLocked()

	session := c.session
	go c.emit(EventTokenRefreshed, session)
	return nil
}

func (c *HTTPClient) persistLocked(ctx context.Context) {
	if c.store == nil || c.session == nil {
		return
	}
	if err := c.store.Save(ctx, c.session.AccessToken, c.session.RefreshToken); err != nil {
		slog.Warn("failed to persist session", "error", err)
	}
}

func (c *HTTPClient) scheduleRefreshLocked() {
	if c.refreshTimer != nil {
		c.refreshTimer.Stop()
		c.refreshTimer = nil
	}
	if c.session == nil || c.session.ExpiresAt.IsZero() {
		return
	}

	wait := time.Until(c.session.ExpiresAt) - refreshMargin
	if wait < time.Second {
		wait = time.Second
	}
	c.refreshTimer = time.AfterFunc(wait, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		c.mu.Lock()
		err := c.refreshLocked(ctx)
		signedOut := err != nil && c.session == nil
		c.mu.Unlock()

		if err != nil {
			slog.Error("background session refresh failed", "error", err)
		}
		if signedOut {
			c.emit(EventSignedOut, nil)
		}
	})
}

// emit notifies listeners outside the client lock, in registration order for
// a given emission.
func (c *HTTPClient) emit(event AuthEvent, session *Session) {
	c.mu.Lock()
	fns := make([]func(AuthEvent, *Session), 0, len(c.listeners))
	for id := 0; id < c.nextListener; id++ {
		if fn, ok := c.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(event, session)
	}
}

func (c *HTTPClient) fetchUser(ctx context.Context, accessToken string) (*User, error) {
	resp, err := c.do(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", accessToken, nil, nil)
	if err != nil {
		return nil, newError(KindNetwork, "auth.user", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, c.errorFromResponse("auth.user", resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, newError(KindNetwork, "auth.user", "", err)
	}
	return &user, nil
}

// do issues a request with the backend's standard headers. bearer defaults to
// the anon key when empty.
func (c *HTTPClient) do(ctx context.Context, method, endpoint, bearer string, body any, headers http.Header) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	return c.http.Do(req)
}

// errorFromResponse classifies a non-2xx backend response.
func (c *HTTPClient) errorFromResponse(op string, resp *http.Response) *Error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var detail struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Code             string `json:"code"`
	}
	_ = json.Unmarshal(payload, &detail)

	message := detail.Msg
	if message == "" {
		message = detail.Message
	}
	if message == "" {
		message = detail.ErrorDescription
	}

	kind := KindNetwork
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		kind = KindAuth
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNotAcceptable:
		kind = KindNotFound
	case detail.Code == "PGRST116": // zero rows for a single-object request
		kind = KindNotFound
	case detail.Code == "42P01": // relation does not exist
		kind = KindNotFound
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		kind = KindAuth
	}

	if message == "" {
		message = fmt.Sprintf("backend returned status %d", resp.StatusCode)
	}
	return newError(kind, op, message, nil)
}

// tokenExpiry reads the exp claim from an access token. The signing secret
// lives on the backend, so the claim is parsed without verification and used
// only to schedule refreshes.
func tokenExpiry(accessToken string) time.Time {
	if accessToken == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
