package utils

import (
	"regexp"
	"strings"

	"github.com/inkwell-app/inkwell-backend/internal/apperr"
)

const MaxEmailLength = 254

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)

	if email == "" {
		return &apperr.ValidationError{Field: "email", Rules: []string{"is required"}}
	}
	if len(email) > MaxEmailLength {
		return &apperr.ValidationError{Field: "email", Rules: []string{"is too long"}}
	}
	if !emailRegex.MatchString(email) {
		return &apperr.ValidationError{Field: "email", Rules: []string{"must be a valid email address"}}
	}
	return nil
}

// NormalizeEmail lowercases and trims an email for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
