package handlers

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"

	"github.com/adminkit/portal-core/internal/supabase"
	"github.com/adminkit/portal-core/storage/db"
	portalviews "github.com/adminkit/portal-core/views/portal"
)

// User-facing sign-in outcomes. The invited-first wording is deliberate:
// user creation is disabled on the magic-link request, so the common
// rejection is an unknown email.
const (
	msgInviteRequired = "You must be invited first. Please contact support if you believe this is a mistake."
	msgMagicLinkSent  = "Magic link sent. Check your email."
)

// AuthHandler serves the magic-link sign-in flow: the form, the fragment
// callback, the token exchange, and sign-out.
type AuthHandler struct {
	client  supabase.Client
	queries *db.Queries
	siteURL string
}

// NewAuthHandler creates the auth handler. siteURL is where magic links
// redirect back to; the audit queries are optional.
func NewAuthHandler(client supabase.Client, queries *db.Queries, siteURL string) *AuthHandler {
	return &AuthHandler{client: client, queries: queries, siteURL: siteURL}
}

// HandleSignInPage renders the magic-link request form.
func (h *AuthHandler) HandleSignInPage(c echo.Context) error {
	return Render(c, portalviews.SignIn("", "", ""))
}

type signInRequest struct {
	Email string `form:"email" validate:"required,email"`
}

// HandleSignInSubmit requests a magic link. A backend rejection re-renders
// the form with the invited-first message and clears any sent notice; a
// success does the reverse. Failures never leave this handler as errors.
func (h *AuthHandler) HandleSignInSubmit(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return Render(c, portalviews.SignIn("", "Enter a valid email address.", ""))
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return Render(c, portalviews.SignIn(req.Email, "Enter a valid email address.", ""))
	}

	err := h.client.SignInWithOTP(c.Request().Context(), req.Email, h.redirectTo())
	h.audit(c.Request().Context(), req.Email, err)

	if err != nil {
		slog.Warn("magic link request rejected", "email", req.Email, "error", err)
		if supabase.IsConfiguration(err) {
			return Render(c, portalviews.SignIn(req.Email, supabase.UserMessage(err), ""))
		}
		return Render(c, portalviews.SignIn(req.Email, msgInviteRequired, ""))
	}

	slog.Info("magic link sent", "email", req.Email)
	return Render(c, portalviews.SignIn(req.Email, "", msgMagicLinkSent))
}

// HandleCallbackPage serves the page that forwards the URL-fragment tokens.
func (h *AuthHandler) HandleCallbackPage(c echo.Context) error {
	return Render(c, portalviews.Callback("/portal/auth/callback"))
}

type callbackRequest struct {
	AccessToken  string `form:"access_token" validate:"required"`
	RefreshToken string `form:"refresh_token" validate:"required"`
}

// HandleCallbackExchange installs the token pair and sends the operator to
// the originally requested page.
func (h *AuthHandler) HandleCallbackExchange(c echo.Context) error {
	var req callbackRequest
	if err := c.Bind(&req); err != nil {
		return c.Redirect(http.StatusFound, "/portal/auth/signin")
	}
	if err := c.Validate(&req); err != nil {
		return c.Redirect(http.StatusFound, "/portal/auth/signin")
	}

	if _, err := h.client.SetSession(c.Request().Context(), req.AccessToken, req.RefreshToken); err != nil {
		slog.Error("magic link token exchange failed", "error", err)
		return Render(c, portalviews.SignIn("", "Sign-in failed. Request a new magic link.", ""))
	}

	return c.Redirect(http.StatusFound, safeRedirect(c.QueryParam("redirect_url")))
}

// HandleSignOut revokes the session and returns to the home page.
func (h *AuthHandler) HandleSignOut(c echo.Context) error {
	if err := h.client.SignOut(c.Request().Context()); err != nil {
		slog.Warn("sign-out failed", "error", err)
	}
	return c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) redirectTo() string {
	if h.siteURL == "" {
		return ""
	}
	return strings.TrimRight(h.siteURL, "/") + "/portal/auth/callback"
}

// audit records the attempt locally, best-effort.
func (h *AuthHandler) audit(ctx context.Context, email string, signInErr error) {
	if h.queries == nil {
		return
	}

	var detail sql.NullString
	if signInErr != nil {
		detail = sql.NullString{String: signInErr.Error(), Valid: true}
	}
	err := h.queries.CreateSignInEvent(ctx, db.CreateSignInEventParams{
		ID:        ulid.Make().String(),
		Email:     email,
		Succeeded: signInErr == nil,
		Detail:    detail,
	})
	if err != nil {
		slog.Warn("failed to record sign-in attempt", "error", err)
	}
}

// safeRedirect keeps post-auth redirects on this site.
func safeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/portal"
	}
	return target
}
