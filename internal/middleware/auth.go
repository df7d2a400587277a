// Package middleware carries the request-level auth plumbing: the portal's
// auth gate and the context loader the views read from.
package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/adminkit/portal-core/internal/auth"
	"github.com/adminkit/portal-core/internal/legacy"
	"github.com/adminkit/portal-core/internal/session"
	portalviews "github.com/adminkit/portal-core/views/portal"
)

// RequireSupabaseAuth gates portal routes on the session provider's state.
// While the provider is loading it renders the placeholder without making a
// redirect decision; a slow session fetch must not bounce an authenticated
// operator to the sign-in page. Once resolved, unauthenticated requests are
// redirected to signInPath with the originally requested location attached.
func RequireSupabaseAuth(provider *session.Provider, signInPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state := provider.Current()

			if state.Loading {
				return portalviews.Loading().Render(c.Request().Context(), c.Response().Writer)
			}

			if state.User == nil {
				target := signInPath + "?redirect_url=" + url.QueryEscape(c.Request().URL.RequestURI())
				return c.Redirect(http.StatusFound, target)
			}

			auth.SetContext(c, auth.FromSupabaseUser(state.User))
			return next(c)
		}
	}
}

// LoadAuthContext resolves the normalized user for every request without
// gating anything, so public pages can render auth-aware chrome.
func LoadAuthContext(adapter *auth.Adapter, legacySessions *legacy.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := adapter.CurrentUser(c.Request().Context())
			if user == nil && legacySessions != nil {
				if legacyUser, err := legacySessions.GetSession(c); err == nil {
					user = auth.FromLegacyUser(legacyUser)
				}
			}
			auth.SetContext(c, user)
			return next(c)
		}
	}
}

// RequireLegacyAuth gates admin routes on the legacy cookie session.
func RequireLegacyAuth(manager *legacy.Manager, loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := manager.GetSession(c)
			if err != nil || user == nil {
				return c.Redirect(http.StatusFound, loginPath)
			}
			auth.SetContext(c, auth.FromLegacyUser(user))
			return next(c)
		}
	}
}
