package repository

import "strings"

// Normalize folds case and whitespace so lookups on usernames, emails and
// addresses match regardless of how the caller typed them.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
