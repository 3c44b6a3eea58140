package user

import (
	"net/mail"
	"strings"
	"unicode"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt input limit
)

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateEmail returns the normalized address or InvalidEmail. Display
// names ("Ana <ana@shop.com>") are rejected.
func ValidateEmail(s string) (string, error) {
	email := NormalizeEmail(s)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndexByte(email, '@'):], ".") {
		return "", ErrInvalidEmail().WithDetail("email", s)
	}
	return email, nil
}

// ValidatePassword requires 8 to 72 characters with at least one lower-case
// letter, upper-case letter, digit and symbol.
func ValidatePassword(pw string) error {
	if len(pw) < minPasswordLength || len(pw) > maxPasswordLength {
		return ErrWeakPassword().WithDetail("reason", "length must be between 8 and 72")
	}

	var lower, upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}

	var missing []string
	if !lower {
		missing = append(missing, "lowercase")
	}
	if !upper {
		missing = append(missing, "uppercase")
	}
	if !digit {
		missing = append(missing, "digit")
	}
	if !symbol {
		missing = append(missing, "symbol")
	}
	if len(missing) > 0 {
		return ErrWeakPassword().WithDetail("missing", missing)
	}
	return nil
}

func ValidateFirstName(s string) (string, error) {
	name := trim(s)
	if name == "" {
		return "", ErrFirstNameRequired()
	}
	return name, nil
}

func trim(s string) string { return strings.TrimSpace(s) }
