package handlers

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/adminkit/portal-core/internal/supabase"
	portalviews "github.com/adminkit/portal-core/views/portal"
)

// statusSaved is the inline confirmation after a successful insert.
const statusSaved = "Saved"

// ClientUpdatesHandler serves the client update entry form. Saves are
// fire-and-forget: the outcome lands in an inline status string and is
// never rethrown.
type ClientUpdatesHandler struct {
	client supabase.Client
}

func NewClientUpdatesHandler(client supabase.Client) *ClientUpdatesHandler {
	return &ClientUpdatesHandler{client: client}
}

func (h *ClientUpdatesHandler) HandleForm(c echo.Context) error {
	return Render(c, portalviews.ClientUpdateForm("", "", ""))
}

type clientUpdateRequest struct {
	Company string `form:"company" validate:"required"`
	Notes   string `form:"notes" validate:"required"`
}

func (h *ClientUpdatesHandler) HandleSave(c echo.Context) error {
	var req clientUpdateRequest
	if err := c.Bind(&req); err != nil {
		return Render(c, portalviews.ClientUpdateForm("", "", "Company and notes are required."))
	}
	if err := c.Validate(&req); err != nil {
		return Render(c, portalviews.ClientUpdateForm(req.Company, req.Notes, "Company and notes are required."))
	}

	err := h.client.Insert(c.Request().Context(), "client_updates", map[string]string{
		"company": req.Company,
		"notes":   req.Notes,
	})
	if err != nil {
		slog.Warn("failed to save client update", "company", req.Company, "error", err)
		return Render(c, portalviews.ClientUpdateForm(req.Company, req.Notes, supabase.UserMessage(err)))
	}

	return Render(c, portalviews.ClientUpdateForm("", "", statusSaved))
}
