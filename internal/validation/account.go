package validation

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// NormalizeEmail trims and lowercases an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail validates email format and length (RFC 5322 via net/mail).
func ValidateEmail(email string) error {
	if email == "" {
		return invalid("email address is required")
	}

	// RFC 5321: total max 254 with @
	if len(email) > 254 {
		return invalid("email address is too long (max 254 characters)")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("invalid email address format")
	}

	return nil
}

// ValidatePassword checks length bounds and rejects the most common patterns.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return invalid("password must be at least 8 characters")
	}

	// bcrypt silently truncates anything past 72 bytes
	if len(password) > 72 {
		return invalid("password must not exceed 72 characters")
	}

	lower := strings.ToLower(password)
	for _, pattern := range []string{"password", "12345678", "qwerty", "letmein"} {
		if strings.Contains(lower, pattern) {
			return invalid("password is too common, please choose a stronger one")
		}
	}

	return nil
}

// ValidateName validates the profile display name. Empty is allowed.
func ValidateName(name string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) > 60 {
		return invalid("name is too long (max 60 characters)")
	}
	return nil
}
