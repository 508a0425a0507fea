// Package sanitizer normalizes free-text input before validation. It never
// rejects input; it only trims and collapses what users typed.
package sanitizer

import "strings"

// NormalizeText trims leading/trailing whitespace and collapses internal
// whitespace runs to a single space.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
