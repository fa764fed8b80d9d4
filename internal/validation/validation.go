// Package validation holds input format checks shared by handlers and services.
package validation

import (
	"net/mail"
	"strings"

	"murmur/internal/models"
)

const minPasswordLen = 8

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that email is a parseable address.
func ValidateEmail(email string) error {
	if email == "" {
		return models.NewValidationError("Email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return models.NewValidationError("Invalid email address")
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return models.NewValidationError("Password must be at least 8 characters")
	}
	return nil
}
