// Package validation holds stateless predicates for signup form input.
// The rules intentionally match the web client so both platforms accept
// the same credentials.
package validation

import (
	"regexp"
	"strings"
)

// PasswordStrength classifies a valid password.
type PasswordStrength string

const (
	StrengthWeak   PasswordStrength = "weak"
	StrengthMedium PasswordStrength = "medium"
	StrengthStrong PasswordStrength = "strong"
)

// Check is one password requirement with its outcome, suitable for
// rendering a live checklist in the client.
type Check struct {
	Message string `json:"message"`
	Passed  bool   `json:"passed"`
}

// PasswordValidation is the full result of validating a password.
type PasswordValidation struct {
	IsValid  bool             `json:"is_valid"`
	Errors   []string         `json:"errors"`
	Strength PasswordStrength `json:"strength"`
	Checks   []Check          `json:"checks"`
}

// EmailValidation is the result of validating an email address.
type EmailValidation struct {
	IsValid bool   `json:"is_valid"`
	Error   string `json:"error,omitempty"`
}

var (
	emailRe       = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	lowerRe       = regexp.MustCompile(`[a-z]`)
	upperRe       = regexp.MustCompile(`[A-Z]`)
	digitRe       = regexp.MustCompile(`\d`)
	specialRe     = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]`)
	sequenceRe    = regexp.MustCompile(`(?i)123|abc|qwe|asd|zxc`)
	maxEmailLen   = 254
	maxPassLen    = 128
	minPassLen    = 8
	mediumPassLen = 10
	strongPassLen = 12
)

// hasTripleRepeat reports whether s contains three or more identical
// consecutive runes.
func hasTripleRepeat(s string) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run >= 3 {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

// ValidatePassword checks a password against the shared policy:
// length bounds, character classes, no 3+ identical consecutive
// characters, no common keyboard sequences.
func ValidatePassword(password string) PasswordValidation {
	checks := []Check{
		{Message: "At least 8 characters long", Passed: len(password) >= minPassLen},
		{Message: "Contains lowercase letter", Passed: lowerRe.MatchString(password)},
		{Message: "Contains uppercase letter", Passed: upperRe.MatchString(password)},
		{Message: "Contains number", Passed: digitRe.MatchString(password)},
		{Message: "Contains special character", Passed: specialRe.MatchString(password)},
		{Message: "No consecutive identical characters", Passed: !hasTripleRepeat(password)},
		{Message: "No common sequences", Passed: !sequenceRe.MatchString(password)},
	}

	var errs []string
	if len(password) < minPassLen {
		errs = append(errs, "Password must be at least 8 characters long")
	}
	if len(password) > maxPassLen {
		errs = append(errs, "Password must be less than 128 characters")
	}
	if !lowerRe.MatchString(password) {
		errs = append(errs, "Password must contain at least one lowercase letter")
	}
	if !upperRe.MatchString(password) {
		errs = append(errs, "Password must contain at least one uppercase letter")
	}
	if !digitRe.MatchString(password) {
		errs = append(errs, "Password must contain at least one number")
	}
	if !specialRe.MatchString(password) {
		errs = append(errs, "Password must contain at least one special character")
	}
	if hasTripleRepeat(password) {
		errs = append(errs, "Password cannot contain more than 2 consecutive identical characters")
	}
	if sequenceRe.MatchString(password) {
		errs = append(errs, "Password cannot contain common sequences")
	}

	strength := StrengthWeak
	if len(errs) == 0 {
		switch {
		case len(password) >= strongPassLen && specialRe.MatchString(password):
			strength = StrengthStrong
		case len(password) >= mediumPassLen:
			strength = StrengthMedium
		}
	}

	return PasswordValidation{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Strength: strength,
		Checks:   checks,
	}
}

// ValidateEmail checks basic shape and length of an email address.
func ValidateEmail(email string) EmailValidation {
	if strings.TrimSpace(email) == "" {
		return EmailValidation{IsValid: false, Error: "Email is required"}
	}
	if !emailRe.MatchString(email) {
		return EmailValidation{IsValid: false, Error: "Please enter a valid email address"}
	}
	if len(email) > maxEmailLen {
		return EmailValidation{IsValid: false, Error: "Email address is too long"}
	}
	return EmailValidation{IsValid: true}
}
