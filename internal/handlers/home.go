package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/adminkit/portal-core/internal/auth"
	portalviews "github.com/adminkit/portal-core/views/portal"
)

// HomeHandler serves the public landing page.
type HomeHandler struct {
	portalEnabled bool
}

func NewHomeHandler(portalEnabled bool) *HomeHandler {
	return &HomeHandler{portalEnabled: portalEnabled}
}

func (h *HomeHandler) HandleHome(c echo.Context) error {
	user, _ := auth.GetUser(c)
	return Render(c, portalviews.Home(user, h.portalEnabled))
}
