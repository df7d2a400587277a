package portal

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
	"github.com/adminkit/portal-core/views/layout"
)

// ClientUpdateForm renders the company/notes entry form. status is the
// inline save result: the backend's error message, or "Saved".
func ClientUpdateForm(company, notes, status string) templ.Component {
	page := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div class="max-w-6xl mx-auto p-6">
<h1 class="text-xl font-semibold mb-4">Client Update</h1>
<form method="post" action="/portal/updates" class="grid gap-4 max-w-lg">
<div>
<label for="company" class="block text-sm font-medium mb-1">Company</label>
<input id="company" name="company" required
class="w-full px-3 py-2 rounded-md border border-gray-300 dark:border-gray-600 bg-white dark:bg-gray-800" value="%s"/>
</div>
<div>
<label for="notes" class="block text-sm font-medium mb-1">Notes</label>
<textarea id="notes" name="notes" required
class="w-full h-24 px-3 py-2 rounded-md border border-gray-300 dark:border-gray-600 bg-white dark:bg-gray-800">%s</textarea>
</div>
<div>
<button type="submit" class="py-2 px-4 text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700">Save</button>
</div>
`, html.EscapeString(company), html.EscapeString(notes)); err != nil {
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
	return layout.Base("Client Update", page)
}
