package utils

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/inkwell-app/inkwell-backend/internal/apperr"
)

const (
	// MinPasswordLength is the minimum accepted password length
	MinPasswordLength = 8
	// PasswordSymbols is the fixed set of accepted punctuation characters
	PasswordSymbols = "!@#$%^&*()-_=+[]{};:,.<>?/|~"
	// bcryptCost ~100ms per hash on commodity hardware
	bcryptCost = 10
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a stored bcrypt hash
func VerifyPassword(password, hashedPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// ValidatePassword enforces the password policy:
// at least 8 characters, one uppercase, one lowercase, one digit, and one
// symbol from PasswordSymbols. Every failed rule is reported so the client
// can render a live checklist.
func ValidatePassword(password string) error {
	var rules []string

	if len(password) < MinPasswordLength {
		rules = append(rules, "must be at least 8 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(PasswordSymbols, r):
			hasSymbol = true
		}
	}

	if !hasUpper {
		rules = append(rules, "must contain an uppercase letter")
	}
	if !hasLower {
		rules = append(rules, "must contain a lowercase letter")
	}
	if !hasDigit {
		rules = append(rules, "must contain a digit")
	}
	if !hasSymbol {
		rules = append(rules, "must contain a symbol ("+PasswordSymbols+")")
	}

	if len(rules) > 0 {
		return &apperr.ValidationError{Field: "password", Rules: rules}
	}
	return nil
}
