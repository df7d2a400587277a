package handlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/adminkit/portal-core/internal/auth"
	"github.com/adminkit/portal-core/internal/portal"
	"github.com/adminkit/portal-core/internal/supabase"
	portalviews "github.com/adminkit/portal-core/views/portal"
)

// recentUpdatesLimit caps the dashboard feed at the five newest entries.
const recentUpdatesLimit = 5

// PortalHandler serves the portal dashboard.
type PortalHandler struct {
	client              supabase.Client
	featureClientUpdate bool
}

func NewPortalHandler(client supabase.Client, featureClientUpdates bool) *PortalHandler {
	return &PortalHandler{client: client, featureClientUpdate: featureClientUpdates}
}

// HandleDashboard renders the portal landing page. The updates feed is
// best-effort: a failed or unprovisioned query falls back to the empty
// state so the dashboard stays usable.
func (h *PortalHandler) HandleDashboard(c echo.Context) error {
	user, _ := auth.GetUser(c)

	var updates []portal.ClientUpdate
	if h.featureClientUpdate {
		updates = h.recentUpdates(c.Request().Context())
	}

	return Render(c, portalviews.Dashboard(user, updates, h.featureClientUpdate))
}

func (h *PortalHandler) recentUpdates(ctx context.Context) []portal.ClientUpdate {
	payload, err := h.client.Query(ctx, "client_updates", supabase.QueryOptions{
		Columns:    "id, company, notes, created_at",
		OrderBy:    "created_at",
		Descending: true,
		Limit:      recentUpdatesLimit,
	})
	if err != nil {
		if supabase.IsNotFound(err) {
			slog.Debug("client_updates table not provisioned", "error", err)
		} else {
			slog.Warn("failed to load client updates", "error", err)
		}
		return nil
	}

	var updates []portal.ClientUpdate
	if err := json.Unmarshal(payload, &updates); err != nil {
		slog.Warn("failed to decode client updates", "error", err)
		return nil
	}
	return updates
}
