package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	NameMinLength     = 20
	NameMaxLength     = 60
	AddressMaxLength  = 400
	PasswordMinLength = 8
	PasswordMaxLength = 16
	RatingMin         = 1
	RatingMax         = 5
	EmailMaxLength    = 255

	passwordSpecialChars = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`
)

// Unicode separators and the zero width no-break space count as whitespace.
var emailPattern = regexp.MustCompile(`^[^\s\p{Z}\x{FEFF}@]+@[^\s\p{Z}\x{FEFF}@]+\.[^\s\p{Z}\x{FEFF}@]+$`)

// The rule functions return an empty string when the value is valid and a
// user-facing message otherwise.

func ValidateName(name string) string {
	n := utf8.RuneCountInString(name)
	switch {
	case name == "":
		return "Name is required"
	case n < NameMinLength:
		return "Name must be at least 20 characters"
	case n > NameMaxLength:
		return "Name cannot exceed 60 characters"
	}
	return ""
}

func ValidateAddress(address string) string {
	switch {
	case address == "":
		return "Address is required"
	case utf8.RuneCountInString(address) > AddressMaxLength:
		return "Address cannot exceed 400 characters"
	}
	return ""
}

func ValidatePassword(password string) string {
	n := utf8.RuneCountInString(password)
	switch {
	case password == "":
		return "Password is required"
	case n < PasswordMinLength:
		return "Password must be at least 8 characters"
	case n > PasswordMaxLength:
		return "Password cannot exceed 16 characters"
	case !strings.ContainsAny(password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ"):
		return "Password must contain at least one uppercase letter"
	case !strings.ContainsAny(password, passwordSpecialChars):
		return "Password must contain at least one special character"
	}
	return ""
}

func ValidateEmail(email string) string {
	switch {
	case email == "":
		return "Email is required"
	case !emailPattern.MatchString(email):
		return "Please enter a valid email address"
	}
	return ""
}

func ValidateRating(rating int) string {
	if rating < RatingMin || rating > RatingMax {
		return "Rating must be between 1 and 5"
	}
	return ""
}
