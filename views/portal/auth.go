// Package portal renders the portal-facing pages. Components are built
// directly on the templ runtime; route wiring stays outside so the views
// never depend on which router serves them.
package portal

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
	"github.com/adminkit/portal-core/views/layout"
)

// SignIn renders the magic-link request form. errMsg and sentMsg are
// mutually exclusive: a failed request clears the sent notice and vice versa.
func SignIn(email, errMsg, sentMsg string) templ.Component {
	form := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div class="min-h-screen flex items-center justify-center py-12 px-4">
<div class="max-w-md w-full space-y-8">
<div>
<h2 class="mt-6 text-center text-3xl font-extrabold">Sign in to Portal Core</h2>
<p class="mt-2 text-center text-sm text-gray-600 dark:text-gray-400">Enter your email to receive a magic link</p>
</div>
<form class="mt-8 space-y-6" method="post" action="/portal/auth/signin">
<div>
<label for="email" class="sr-only">Email address</label>
<input id="email" name="email" type="email" autocomplete="email" required
class="appearance-none rounded-md relative block w-full px-3 py-2 border border-gray-300 dark:border-gray-600 bg-white dark:bg-gray-800"
placeholder="Email address" value="%s"/>
</div>
`, html.EscapeString(email)); err != nil {
			return err
		}
		if errMsg != "" {
			if _, err := fmt.Fprintf(w, `<div class="text-red-600 text-sm text-center">%s</div>
`, html.EscapeString(errMsg)); err != nil {
				return err
			}
		}
		if sentMsg != "" {
			if _, err := fmt.Fprintf(w, `<div class="text-green-600 text-sm text-center">%s</div>
`, html.EscapeString(sentMsg)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `<div>
<button type="submit" class="group relative w-full flex justify-center py-2 px-4 text-sm font-medium rounded-md text-white bg-indigo-600 hover:bg-indigo-700">Send magic link</button>
</div>
</form>
</div>
</div>
`)
		return err
	})
	return layout.Base("Sign in", form)
}

// Callback renders the fragment-forwarding page. The backend delivers the
// token pair in the URL fragment, which never reaches the server, so a tiny
// script re-posts it to exchangePath.
func Callback(exchangePath string) templ.Component {
	page := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="min-h-screen grid place-items-center">
<div class="animate-spin rounded-full h-8 w-8 border-b-2 border-gray-600"></div>
</div>
<script>
(function () {
  var params = new URLSearchParams(window.location.hash.slice(1));
  var access = params.get("access_token");
  var refresh = params.get("refresh_token");
  if (!access || !refresh) {
    window.location.replace("/portal/auth/signin");
    return;
  }
  var form = document.createElement("form");
  form.method = "POST";
  form.action = %q + window.location.search;
  var add = function (name, value) {
    var input = document.createElement("input");
    input.type = "hidden";
    input.name = name;
    input.value = value;
    form.appendChild(input);
  };
  add("access_token", access);
  add("refresh_token", refresh);
  document.body.appendChild(form);
  form.submit();
})();
</script>
`, exchangePath)
		return err
	})
	return layout.Base("Signing in", page)
}

// Loading is the auth gate's placeholder while the session state is still
// unresolved; it refreshes itself rather than deciding a redirect early.
func Loading() templ.Component {
	page := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<meta http-equiv="refresh" content="1"/>
<div class="min-h-screen grid place-items-center">
<div class="animate-spin rounded-full h-8 w-8 border-b-2 border-gray-600"></div>
</div>
`)
		return err
	})
	return layout.Base("Loading", page)
}
