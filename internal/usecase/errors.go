package usecase

import (
	"errors"
	"fmt"

	"store-rating/pkg/utils"

	"github.com/google/uuid"
)

// ValidationError carries a message per invalid field, keyed by json name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// AuthError is a credential or session failure. Compare against the
// sentinels below with errors.Is.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

var (
	ErrInvalidCredentials   = &AuthError{Message: "invalid credentials"}
	ErrEmailInUse           = &AuthError{Message: "email in use"}
	ErrWrongCurrentPassword = &AuthError{Message: "wrong current password"}
	ErrNoActiveSession      = &AuthError{Message: "no active session"}
)

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ErrForbidden is returned when the caller's role does not allow the
// operation.
var ErrForbidden = errors.New("forbidden")

// validate runs the struct rules of req.
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// parseID parses a path identifier. A malformed one cannot name an existing
// row, so it is reported as not found.
func parseID(entity, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &NotFoundError{Entity: entity, ID: raw}
	}
	return id, nil
}
