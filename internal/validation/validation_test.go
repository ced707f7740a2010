package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
		strength PasswordStrength
	}{
		{"valid medium length", "Venture#79x", true, StrengthMedium},
		{"valid strong", "Venture#79xLong!", true, StrengthStrong},
		{"valid but short keeps weak", "Vent#79x", true, StrengthWeak},
		{"too short", "Va#7", false, StrengthWeak},
		{"missing uppercase", "venture#79x", false, StrengthWeak},
		{"missing lowercase", "VENTURE#79X", false, StrengthWeak},
		{"missing digit", "Venture#xyz", false, StrengthWeak},
		{"missing special", "Venture79xx", false, StrengthWeak},
		{"triple repeat", "Vennn#79xw", false, StrengthWeak},
		{"common sequence", "Vent#79abc", false, StrengthWeak},
		{"sequence case insensitive", "Vent#79ABC", false, StrengthWeak},
		{"too long", "V#7" + strings.Repeat("aB", 70), false, StrengthWeak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidatePassword(tt.password)
			assert.Equal(t, tt.valid, got.IsValid, "errors: %v", got.Errors)
			assert.Equal(t, tt.strength, got.Strength)
			assert.Len(t, got.Checks, 7)
			if !tt.valid {
				assert.NotEmpty(t, got.Errors)
			}
		})
	}
}

func TestValidatePasswordDoubleRepeatAllowed(t *testing.T) {
	// Two identical consecutive characters are fine; three are not.
	got := ValidatePassword("Venn#79xw!")
	assert.True(t, got.IsValid)
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"plain address", "user@example.com", true},
		{"subdomain and plus", "first.last+tag@mail.example.org", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"missing at", "userexample.com", false},
		{"missing tld", "user@example", false},
		{"single letter tld", "user@example.c", false},
		{"too long", strings.Repeat("a", 250) + "@b.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateEmail(tt.email)
			assert.Equal(t, tt.valid, got.IsValid)
			if !tt.valid {
				assert.NotEmpty(t, got.Error)
			}
		})
	}
}
