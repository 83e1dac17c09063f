package auth

import (
	"regexp"
	"unicode"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks that a signup email looks deliverable
func ValidateEmail(email string) bool {
	return len(email) < 255 && emailRegex.MatchString(email)
}

// ValidatePassword enforces the signup password policy: 8 to 72
// characters (the bcrypt input limit) containing at least three of the
// four character classes.
func ValidatePassword(password string) bool {
	if len(password) < 8 || len(password) > 72 {
		return false
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}

	classes := 0
	for _, present := range []bool{upper, lower, digit, special} {
		if present {
			classes++
		}
	}
	return classes >= 3
}

// PasswordRequirements spells out the policy for signup error responses
func PasswordRequirements() []string {
	return []string{
		"Between 8 and 72 characters",
		"At least three of: uppercase letters, lowercase letters, digits, special characters",
	}
}
