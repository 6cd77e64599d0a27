package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		{"empty", "", "Password is required"},
		{"too short", "abc", "Password must be at least 8 characters"},
		{"too long", "Abcdefghijklmnop!", "Password cannot exceed 16 characters"},
		{"no uppercase", "abcdefg1!", "Password must contain at least one uppercase letter"},
		{"no special character", "Abcdefgh", "Password must contain at least one special character"},
		{"valid", "Abcdefg1!", ""},
		{"valid at max length", "Abcdefghijklmno!", ""},
		{"backslash counts as special", `Abcdefg\h`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePassword(tt.password))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"a@b.com", true},
		{"first.last@sub.example.org", true},
		{"not-an-email", false},
		{"a@b", false},
		{"a b@c.com", false},
		{"a\u00a0b@c.com", false},
		{"a@b\u2003c.com", false},
		{"a@b.c\u2028om", false},
		{"\ufeffa@b.com", false},
		{"ünïcode@exämple.com", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateEmail(tt.email) == "")
		})
	}
}

func TestValidateName(t *testing.T) {
	assert.Equal(t, "Name is required", ValidateName(""))
	assert.Equal(t, "Name must be at least 20 characters", ValidateName(strings.Repeat("a", 19)))
	assert.Empty(t, ValidateName("Aaaaaaaaaaaaaaaaaaaa"))
	assert.Empty(t, ValidateName(strings.Repeat("a", 60)))
	assert.Equal(t, "Name cannot exceed 60 characters", ValidateName(strings.Repeat("a", 61)))

	// Lengths are counted in characters, not bytes
	assert.Empty(t, ValidateName(strings.Repeat("é", 20)))
}

func TestValidateAddress(t *testing.T) {
	assert.Equal(t, "Address is required", ValidateAddress(""))
	assert.Empty(t, ValidateAddress(strings.Repeat("x", 400)))
	assert.Equal(t, "Address cannot exceed 400 characters", ValidateAddress(strings.Repeat("x", 401)))
}

func TestValidateRating(t *testing.T) {
	for v := 1; v <= 5; v++ {
		assert.Empty(t, ValidateRating(v))
	}
	assert.NotEmpty(t, ValidateRating(0))
	assert.NotEmpty(t, ValidateRating(6))
	assert.NotEmpty(t, ValidateRating(-3))
}
