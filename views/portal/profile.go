package portal

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
	"github.com/adminkit/portal-core/internal/portal"
	"github.com/adminkit/portal-core/views/layout"
)

// ProfilePage renders the profile editor for the signed-in user.
func ProfilePage(profile portal.Profile, status string) templ.Component {
	page := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div class="max-w-6xl mx-auto p-6">
<h1 class="text-xl font-semibold mb-4">Profile</h1>
<form method="post" action="/portal/profile" class="grid gap-4 max-w-lg">
<div>
<label for="email" class="block text-sm font-medium mb-1">Email</label>
<input id="email" name="email" type="email" readonly
class="w-full px-3 py-2 rounded-md border border-gray-300 dark:border-gray-600 bg-gray-100 dark:bg-gray-700" value="%s"/>
</div>
<div>
<label for="full_name" class="block text-sm font-medium mb-1">Full name</label>
<input id="full_name" name="full_name"
class="w-full px-3 py-2 rounded-md border border-gray-300 dark:border-gray-600 bg-white dark:bg-gray-800" value="%s"/>
</div>
<div>
<label for="avatar_url" class="block text-sm font-medium mb-1">Avatar URL</label>
<input id="avatar_url" name="avatar_url"
class="w-full px-3 py-2 rounded-md border border-gray-300 dark:border-gray-600 bg-white dark:bg-gray-800" value="%s"/>
</div>
<div>
<button type="submit" class="py-2 px-4 text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700">Save</button>
</div>
`, html.EscapeString(profile.Email), html.EscapeString(profile.FullName), html.EscapeString(profile.AvatarURL)); err != nil {
			return err
		}
		if status != "" {
			if _, err := fmt.Fprintf(w, `<div class="text-sm text-gray-500 dark:text-gray-400">%s</div>
`, html.EscapeString(status)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</form>\n</div>\n")
		return err
	})
	return layout.Base("Profile", page)
}
