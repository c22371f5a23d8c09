package utils

import (
	"net/mail"
	"strings"
)

// NormalizeEmail trims and lower-cases an address so that uniqueness
// checks ignore case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail reports whether email is a bare address such as
// "user@example.com".
func IsValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email && strings.Contains(email, "@")
}
