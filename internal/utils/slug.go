// internal/utils/slug.go
package utils

import (
	"regexp"
	"strings"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9\x{0600}-\x{06FF}]+`)

// Slugify keeps ASCII alphanumerics and Persian letters, everything else
// collapses to a dash.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "category"
	}
	return s
}
