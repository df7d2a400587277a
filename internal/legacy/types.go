// Package legacy is the template's pre-portal credential auth: a cookie
// session keyed to a locally stored user. It coexists with the Supabase
// mechanism and is only consulted through its own explicit entry points.
package legacy

// UserData is the user information stored in the legacy cookie session.
type UserData struct {
	ID       string
	Username string
	Email    string
	FullName string
}
