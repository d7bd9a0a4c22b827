package model

import "strings"

// ParseFragment recovers a resource path from a deep link. Both "#<path>"
// and ".../index.html#<path>" are accepted; a bare path without any "#" is
// returned unchanged.
func ParseFragment(fragment string) string {
	if _, after, ok := strings.Cut(fragment, "index.html#"); ok {
		return strings.TrimSpace(after)
	}
	// Catch-all for fragments that did not carry the index page prefix.
	// Only the first "#" is a separator.
	if _, after, ok := strings.Cut(fragment, "#"); ok {
		fragment = after
	}
	return strings.TrimSpace(fragment)
}
