package helpers

import (
	"strings"
	"time"

	twmerge "github.com/Oudwins/tailwind-merge-go"
)

// FormatDateTime formats a time.Time as "Jan 2, 2006 3:04 PM"
func FormatDateTime(t time.Time) string {
	return t.Format("Jan 2, 2006 3:04 PM")
}

// FormatDate formats a time.Time as "Jan 2, 2006"
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// Classes merges Tailwind class lists, letting later classes win conflicts.
func Classes(classes ...string) string {
	return twmerge.Merge(classes...)
}

// Initials derives up to two uppercase initials for the avatar fallback.
func Initials(name string) string {
	fields := strings.Fields(strings.TrimSpace(name))
	if len(fields) == 0 {
		return "?"
	}

	first := []rune(fields[0])
	initials := strings.ToUpper(string(first[0]))
	if len(fields) > 1 {
		last := []rune(fields[len(fields)-1])
		initials += strings.ToUpper(string(last[0]))
	}
	return initials
}
