package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type signup struct {
	Name     string `json:"name" validate:"personname"`
	Email    string `json:"email" validate:"emailaddr,max=255"`
	Address  string `json:"address" validate:"address"`
	Password string `json:"password" validate:"password"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN USER"`
}

type vote struct {
	Value int `json:"value" validate:"rating"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		errs := ValidateStruct(signup{
			Name:     "Aaaaaaaaaaaaaaaaaaaa",
			Email:    "a@b.com",
			Address:  "12 Main Street",
			Password: "Abcdefg1!",
		})
		assert.Nil(t, errs)
	})

	t.Run("fields reported by json name with rule messages", func(t *testing.T) {
		errs := ValidateStruct(signup{
			Name:     "short",
			Email:    "not-an-email",
			Password: "Abcdefgh",
			Role:     "ROOT",
		})

		assert.Equal(t, map[string]string{
			"name":     "Name must be at least 20 characters",
			"email":    "Please enter a valid email address",
			"address":  "Address is required",
			"password": "Password must contain at least one special character",
			"role":     "Must be one of: ADMIN, USER",
		}, errs)
	})

	t.Run("email longer than the column", func(t *testing.T) {
		email := strings.Repeat("a", EmailMaxLength-len("@b.com")+1) + "@b.com"
		errs := ValidateStruct(signup{
			Name:     "Aaaaaaaaaaaaaaaaaaaa",
			Email:    email,
			Address:  "12 Main Street",
			Password: "Abcdefg1!",
		})
		assert.Equal(t, map[string]string{"email": "Maximum length is 255"}, errs)

		errs = ValidateStruct(signup{
			Name:     "Aaaaaaaaaaaaaaaaaaaa",
			Email:    email[1:],
			Address:  "12 Main Street",
			Password: "Abcdefg1!",
		})
		assert.Nil(t, errs)
	})

	t.Run("rating out of range", func(t *testing.T) {
		assert.Equal(t, map[string]string{"value": "Rating must be between 1 and 5"}, ValidateStruct(vote{Value: 0}))
		assert.Nil(t, ValidateStruct(vote{Value: 5}))
	})
}

func TestFormatValidationErrors(t *testing.T) {
	got := FormatValidationErrors(map[string]string{
		"password": "too short",
		"email":    "invalid",
	})
	assert.Equal(t, "email: invalid; password: too short", got)
}
