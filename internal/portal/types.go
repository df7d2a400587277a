// Package portal holds the domain records the portal feature reads and
// writes through the hosted backend.
package portal

import "time"

// ClientUpdate is one entry in the client updates feed. Rows live in the
// backend's client_updates table; there is no update or delete path.
type ClientUpdate struct {
	ID        string    `json:"id"`
	Company   string    `json:"company"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the portal user's profile row, merged with session-derived
// defaults when the backend has no row yet.
type Profile struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	FullName  string         `json:"full_name"`
	AvatarURL string         `json:"avatar_url"`
	Metadata  map[string]any `json:"metadata"`
}
