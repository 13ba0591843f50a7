package ws

import (
	"strings"
	"unicode/utf8"
)

// ValidMessage reports whether a chat body may be broadcast. Bodies that are
// blank, not valid UTF-8 or longer than maxBytes are rejected. The body itself
// is delivered exactly as sent.
func ValidMessage(body string, maxBytes int) bool {
	if strings.TrimSpace(body) == "" {
		return false
	}
	if !utf8.ValidString(body) {
		return false
	}
	return len(body) <= maxBytes
}
