// Package layout provides the shared HTML shell for all rendered pages.
package layout

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// Base wraps page content in the document shell: Tailwind, dark-mode aware
// background, and the top bar.
func Base(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>%s</title>
<script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="min-h-screen bg-gray-50 dark:bg-gray-900 text-gray-900 dark:text-white">
<header class="border-b border-gray-200 dark:border-gray-700 bg-white dark:bg-gray-800">
<div class="max-w-6xl mx-auto px-4 py-3 flex items-center justify-between">
<a href="/" class="font-semibold">Portal Core</a>
<nav class="text-sm space-x-4">
<a href="/portal" class="text-gray-600 dark:text-gray-300 hover:underline">Portal</a>
<a href="/admin" class="text-gray-600 dark:text-gray-300 hover:underline">Admin</a>
</nav>
</div>
</header>
<main>
`, html.EscapeString(title)); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</main>\n</body>\n</html>\n")
		return err
	})
}
