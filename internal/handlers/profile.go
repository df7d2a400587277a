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

// ProfileHandler serves the profile page backed by the profiles table.
type ProfileHandler struct {
	client supabase.Client
}

func NewProfileHandler(client supabase.Client) *ProfileHandler {
	return &ProfileHandler{client: client}
}

func (h *ProfileHandler) HandlePage(c echo.Context) error {
	user, _ := auth.GetUser(c)
	profile := h.loadProfile(c.Request().Context(), user)
	return Render(c, portalviews.ProfilePage(profile, ""))
}

type profileRequest struct {
	FullName  string `form:"full_name"`
	AvatarURL string `form:"avatar_url" validate:"omitempty,url"`
}

func (h *ProfileHandler) HandleSave(c echo.Context) error {
	user, _ := auth.GetUser(c)

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return Render(c, portalviews.ProfilePage(h.loadProfile(c.Request().Context(), user), "Invalid profile data."))
	}
	if err := c.Validate(&req); err != nil {
		return Render(c, portalviews.ProfilePage(h.loadProfile(c.Request().Context(), user), "Avatar URL must be a valid URL."))
	}

	profile := h.loadProfile(c.Request().Context(), user)
	profile.FullName = req.FullName
	profile.AvatarURL = req.AvatarURL

	payload := map[string]any{
		"id":         profile.ID,
		"email":      nullable(profile.Email),
		"full_name":  nullable(profile.FullName),
		"avatar_url": nullable(profile.AvatarURL),
		"metadata":   profile.Metadata,
	}
	if err := h.client.Upsert(c.Request().Context(), "profiles", "id", payload); err != nil {
		slog.Warn("failed to save profile", "error", err)
		return Render(c, portalviews.ProfilePage(profile, supabase.UserMessage(err)))
	}

	return Render(c, portalviews.ProfilePage(profile, statusSaved))
}

// loadProfile reads the profiles row for the session user, falling back to
// session-derived fields when the row (or the table) does not exist yet.
func (h *ProfileHandler) loadProfile(ctx context.Context, user *auth.AuthUser) portal.Profile {
	profile := portal.Profile{Metadata: map[string]any{}}
	if user == nil {
		return profile
	}
	profile.ID = user.ID
	profile.Email = user.Email
	profile.FullName = user.Name
	profile.AvatarURL = user.Avatar

	payload, err := h.client.Query(ctx, "profiles", supabase.QueryOptions{
		Columns: "id, email, full_name, avatar_url, metadata",
		Filters: map[string]string{"id": "eq." + user.ID},
		Single:  true,
	})
	if err != nil {
		if !supabase.IsNotFound(err) {
			slog.Warn("failed to load profile", "error", err)
		}
		return profile
	}

	var row struct {
		Email     string         `json:"email"`
		FullName  string         `json:"full_name"`
		AvatarURL string         `json:"avatar_url"`
		Metadata  map[string]any `json:"metadata"`
	}
	if err := json.Unmarshal(payload, &row); err != nil {
		slog.Warn("failed to decode profile", "error", err)
		return profile
	}

	if row.Email != "" {
		profile.Email = row.Email
	}
	if row.FullName != "" {
		profile.FullName = row.FullName
	}
	if row.AvatarURL != "" {
		profile.AvatarURL = row.AvatarURL
	}
	if row.Metadata != nil {
		profile.Metadata = row.Metadata
	}
	return profile
}

// nullable maps empty strings to SQL nulls on the wire.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
