// utils/validator.go - Input validation and sanitization
package utils

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// strict policy: all markup is stripped from free-text fields
var sanitizePolicy = bluemonday.StrictPolicy()

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// SanitizeInput strips markup and potentially harmful characters from
// free-text input before it is persisted.
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	// bluemonday HTML-escapes what it keeps; store the plain text form
	return html.UnescapeString(sanitizePolicy.Sanitize(input))
}
