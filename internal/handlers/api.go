package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adminkit/portal-core/internal/auth"
	"github.com/adminkit/portal-core/internal/portal"
	"github.com/adminkit/portal-core/internal/session"
	"github.com/adminkit/portal-core/internal/supabase"
)

// Envelope is the standard JSON response wrapper.
type Envelope struct {
	Data  any    `json:"data"`
	Error string `json:"error,omitempty"`
}

// APIHandler exposes the portal state as JSON for the dashboard widgets.
type APIHandler struct {
	client   supabase.Client
	sessions *session.Provider
}

func NewAPIHandler(client supabase.Client, sessions *session.Provider) *APIHandler {
	return &APIHandler{client: client, sessions: sessions}
}

type sessionResponse struct {
	Loading       bool           `json:"loading"`
	Authenticated bool           `json:"authenticated"`
	User          *auth.AuthUser `json:"user,omitempty"`
}

// HandleSession reports the provider's current snapshot.
func (h *APIHandler) HandleSession(c echo.Context) error {
	state := h.sessions.Current()

	resp := sessionResponse{Loading: state.Loading}
	if state.User != nil {
		resp.Authenticated = true
		resp.User = auth.FromSupabaseUser(state.User)
	}
	return c.JSON(http.StatusOK, Envelope{Data: resp})
}

// HandleUpdates returns the recent client updates feed. Backend failures
// degrade to an empty list; only a decode failure is surfaced.
func (h *APIHandler) HandleUpdates(c echo.Context) error {
	payload, err := h.client.Query(c.Request().Context(), "client_updates", supabase.QueryOptions{
		Columns:    "id, company, notes, created_at",
		OrderBy:    "created_at",
		Descending: true,
		Limit:      recentUpdatesLimit,
	})
	if err != nil {
		slog.Warn("api: failed to load client updates", "error", err)
		return c.JSON(http.StatusOK, Envelope{Data: []portal.ClientUpdate{}})
	}

	var updates []portal.ClientUpdate
	if err := json.Unmarshal(payload, &updates); err != nil {
		return c.JSON(http.StatusInternalServerError, Envelope{Error: "failed to decode updates"})
	}
	if updates == nil {
		updates = []portal.ClientUpdate{}
	}
	return c.JSON(http.StatusOK, Envelope{Data: updates})
}
