package portal

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
	"github.com/adminkit/portal-core/internal/auth"
	"github.com/adminkit/portal-core/internal/portal"
	"github.com/adminkit/portal-core/views/helpers"
	"github.com/adminkit/portal-core/views/layout"
)

func card(w io.Writer, title, body, bodyClass string) error {
	_, err := fmt.Fprintf(w, `<div class="bg-white dark:bg-gray-800 p-6 rounded-lg border border-gray-200 dark:border-gray-700">
<h3 class="text-lg font-semibold mb-2">%s</h3>
<p class="%s">%s</p>
</div>
`, html.EscapeString(title), helpers.Classes("text-sm text-gray-600 dark:text-gray-400", bodyClass), html.EscapeString(body))
	return err
}

// Dashboard renders the portal landing page: the status cards and, when the
// feature is on, the five most recent client updates.
func Dashboard(user *auth.AuthUser, updates []portal.ClientUpdate, showUpdates bool) templ.Component {
	page := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		email := ""
		avatar := ""
		if user != nil {
			email = user.Email
			avatar = "/avatar/" + user.ID + ".png"
			if user.Avatar != "" {
				avatar = user.Avatar
			}
		}

		if _, err := fmt.Fprintf(w, `<div class="max-w-6xl mx-auto p-6 space-y-6">
<div class="flex items-center justify-between">
<div>
<h2 class="text-2xl font-bold">Portal Core Dashboard</h2>
<p class="text-gray-600 dark:text-gray-400">Welcome to your Portal Core dashboard.</p>
</div>
<div class="flex items-center gap-3">
<img src="%s" alt="avatar" class="h-10 w-10 rounded-full border border-gray-200 dark:border-gray-700"/>
<a href="/portal/auth/signout" class="text-sm text-gray-600 dark:text-gray-300 hover:underline">Sign out</a>
</div>
</div>
<div class="grid grid-cols-1 md:grid-cols-2 lg:grid-cols-4 gap-4">
`, html.EscapeString(avatar)); err != nil {
			return err
		}

		if err := card(w, "User Info", email, ""); err != nil {
			return err
		}
		if err := card(w, "Auth Provider", "Supabase", ""); err != nil {
			return err
		}
		if err := card(w, "Status", "Authenticated", "text-green-600"); err != nil {
			return err
		}
		if err := card(w, "Features", "Portal Core Active", ""); err != nil {
			return err
		}

		if _, err := io.WriteString(w, "</div>\n"); err != nil {
			return err
		}

		if showUpdates {
			if err := renderUpdates(w, updates); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "</div>\n")
		return err
	})
	return layout.Base("Portal Core Dashboard", page)
}

func renderUpdates(w io.Writer, updates []portal.ClientUpdate) error {
	if _, err := io.WriteString(w, `<div class="bg-white dark:bg-gray-800 p-6 rounded-lg border border-gray-200 dark:border-gray-700">
<div class="flex items-center justify-between mb-4">
<h3 class="text-lg font-semibold">Recent Client Updates</h3>
<a href="/portal/updates" class="text-sm text-indigo-600 hover:underline">Add update</a>
</div>
`); err != nil {
		return err
	}

	if len(updates) == 0 {
		if _, err := io.WriteString(w, `<p class="text-sm text-gray-500 dark:text-gray-400">No updates yet.</p>
`); err != nil {
			return err
		}
	} else {
		if _, err := io.WriteString(w, `<div class="grid gap-3 md:grid-cols-2">
`); err != nil {
			return err
		}
		for _, update := range updates {
			if _, err := fmt.Fprintf(w, `<div class="border border-gray-200 dark:border-gray-700 rounded-lg p-3">
<div class="font-medium">%s</div>
<div class="text-sm text-gray-600 dark:text-gray-300">%s</div>
<div class="text-xs text-gray-400 mt-1">%s</div>
</div>
`, html.EscapeString(update.Company), html.EscapeString(update.Notes), html.EscapeString(helpers.FormatDateTime(update.CreatedAt))); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</div>\n"); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</div>\n")
	return err
}
