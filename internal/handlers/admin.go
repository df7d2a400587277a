package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adminkit/portal-core/internal/auth"
	"github.com/adminkit/portal-core/internal/legacy"
	portalviews "github.com/adminkit/portal-core/views/portal"
)

// AdminHandler serves the legacy credential login and the admin landing
// page it guards.
type AdminHandler struct {
	service  *legacy.Service
	sessions *legacy.Manager
}

func NewAdminHandler(service *legacy.Service, sessions *legacy.Manager) *AdminHandler {
	return &AdminHandler{service: service, sessions: sessions}
}

func (h *AdminHandler) HandleLoginPage(c echo.Context) error {
	if user, err := h.sessions.GetSession(c); err == nil && user != nil {
		return c.Redirect(http.StatusFound, "/admin")
	}
	return Render(c, portalviews.AdminLogin(""))
}

type adminLoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func (h *AdminHandler) HandleLoginSubmit(c echo.Context) error {
	var req adminLoginRequest
	if err := c.Bind(&req); err != nil {
		return Render(c, portalviews.AdminLogin("Username and password are required."))
	}
	if err := c.Validate(&req); err != nil {
		return Render(c, portalviews.AdminLogin("Username and password are required."))
	}

	user, err := h.service.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		slog.Warn("admin login rejected", "username", req.Username)
		return Render(c, portalviews.AdminLogin("Invalid username or password."))
	}

	if err := h.sessions.CreateSession(c, user); err != nil {
		slog.Error("failed to create admin session", "error", err)
		return Render(c, portalviews.AdminLogin("Something went wrong. Try again."))
	}

	slog.Info("admin signed in", "username", user.Username)
	return c.Redirect(http.StatusFound, "/admin")
}

func (h *AdminHandler) HandleAdminHome(c echo.Context) error {
	user, _ := auth.GetUser(c)
	return Render(c, portalviews.AdminHome(user))
}

func (h *AdminHandler) HandleLogout(c echo.Context) error {
	if err := h.sessions.DestroySession(c); err != nil {
		slog.Warn("failed to destroy admin session", "error", err)
	}
	return c.Redirect(http.StatusFound, "/admin/login")
}
