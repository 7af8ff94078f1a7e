package server

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// sanitizeDate strips markup and surrounding whitespace from the free-form
// date fields the admin UI posts. The core never interprets them; they are
// passed through to tools that want a date range.
func sanitizeDate(value string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(value, ""))
}
