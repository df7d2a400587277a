package portal

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
	"github.com/adminkit/portal-core/internal/auth"
	"github.com/adminkit/portal-core/views/layout"
)

// Home renders the dashboard landing page shared by both auth mechanisms.
func Home(user *auth.AuthUser, portalEnabled bool) templ.Component {
	page := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="max-w-6xl mx-auto p-6 space-y-6">
<h1 class="text-2xl font-bold">Dashboard</h1>
`); err != nil {
			return err
		}

		if user != nil {
			if _, err := fmt.Fprintf(w, `<p class="text-gray-600 dark:text-gray-400">Signed in as %s via %s.</p>
`, html.EscapeString(user.Name), html.EscapeString(string(user.Provider))); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, `<p class="text-gray-600 dark:text-gray-400">You are not signed in.</p>
`); err != nil {
				return err
			}
		}

		if portalEnabled {
			if _, err := io.WriteString(w, `<div class="flex gap-4 text-sm">
<a href="/portal" class="py-2 px-4 rounded-md text-white bg-indigo-600 hover:bg-indigo-700">Open portal</a>
<a href="/portal/auth/signin" class="py-2 px-4 rounded-md border border-gray-300 dark:border-gray-600">Sign in</a>
</div>
`); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "</div>\n")
		return err
	})
	return layout.Base("Dashboard", page)
}

// AdminLogin renders the legacy credential form.
func AdminLogin(errMsg string) templ.Component {
	page := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="min-h-screen flex items-center justify-center py-12 px-4">
<form method="post" action="/admin/login" class="max-w-md w-full space-y-4">
<h2 class="text-center text-2xl font-bold">Admin sign in</h2>
<input name="username" required placeholder="Username" autocomplete="username"
class="w-full px-3 py-2 rounded-md border border-gray-300 dark:border-gray-600 bg-white dark:bg-gray-800"/>
<input name="password" type="password" required placeholder="Password" autocomplete="current-password"
class="w-full px-3 py-2 rounded-md border border-gray-300 dark:border-gray-600 bg-white dark:bg-gray-800"/>
`); err != nil {
			return err
		}
		if errMsg != "" {
			if _, err := fmt.Fprintf(w, `<div class="text-red-600 text-sm text-center">%s</div>
`, html.EscapeString(errMsg)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `<button type="submit" class="w-full py-2 px-4 text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700">Sign in</button>
</form>
</div>
`)
		return err
	})
	return layout.Base("Admin sign in", page)
}

// AdminHome renders the legacy-guarded admin landing page.
func AdminHome(user *auth.AuthUser) templ.Component {
	page := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		name := ""
		if user != nil {
			name = user.Name
		}
		_, err := fmt.Fprintf(w, `<div class="max-w-6xl mx-auto p-6 space-y-4">
<h1 class="text-2xl font-bold">Admin</h1>
<p class="text-gray-600 dark:text-gray-400">Signed in as %s (legacy auth).</p>
<a href="/admin/logout" class="text-sm text-indigo-600 hover:underline">Sign out</a>
</div>
`, html.EscapeString(name))
		return err
	})
	return layout.Base("Admin", page)
}
