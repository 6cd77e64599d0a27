package adaptor

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"store-rating/internal/usecase"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &usecase.ValidationError{Fields: map[string]string{"value": "bad"}}, http.StatusBadRequest},
		{"email in use", usecase.ErrEmailInUse, http.StatusConflict},
		{"wrapped email in use", fmt.Errorf("register: %w", usecase.ErrEmailInUse), http.StatusConflict},
		{"invalid credentials", usecase.ErrInvalidCredentials, http.StatusUnauthorized},
		{"no session", usecase.ErrNoActiveSession, http.StatusUnauthorized},
		{"forbidden", usecase.ErrForbidden, http.StatusForbidden},
		{"not found", &usecase.NotFoundError{Entity: "rating", ID: "x"}, http.StatusNotFound},
		{"anything else", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, zap.NewNop(), tt.err, "test")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandleServiceError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	handleServiceError(rec, zap.NewNop(), errors.New("pq: password authentication failed"), "test")

	assert.NotContains(t, rec.Body.String(), "password authentication")
}
