package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/adminkit/portal-core/internal/auth"
	"github.com/adminkit/portal-core/internal/avatar"
)

// AvatarHandler serves generated initials avatars.
type AvatarHandler struct {
	generator *avatar.Generator
}

func NewAvatarHandler(generator *avatar.Generator) *AvatarHandler {
	return &AvatarHandler{generator: generator}
}

// HandleAvatar renders the fallback avatar for a seed. The display name of
// the signed-in user drives the initials when the seed is their own id.
func (h *AvatarHandler) HandleAvatar(c echo.Context) error {
	seed := strings.TrimSuffix(c.Param("seed"), ".png")
	if seed == "" {
		return c.NoContent(http.StatusNotFound)
	}

	name := seed
	if user, ok := auth.GetUser(c); ok && user != nil && user.ID == seed {
		name = user.Name
	}

	data, err := h.generator.Render(seed, name)
	if err != nil {
		slog.Error("failed to render avatar", "seed", seed, "error", err)
		return c.NoContent(http.StatusInternalServerError)
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, "image/png", data)
}
