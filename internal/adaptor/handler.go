package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"store-rating/internal/data/entity"
	"store-rating/internal/usecase"
	"store-rating/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth      *AuthHandler
	User      *UserHandler
	Store     *StoreHandler
	Rating    *RatingHandler
	Dashboard *DashboardHandler
	Health    *HealthHandler
}

func NewHandler(service *usecase.Service, checks map[string]HealthCheck, log *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(service.Auth, log),
		User:      NewUserHandler(service.User, service.Auth, service.Store, log),
		Store:     NewStoreHandler(service.Store, service.Rating, log),
		Rating:    NewRatingHandler(service.Rating, log),
		Dashboard: NewDashboardHandler(service.Dashboard, log),
		Health:    NewHealthHandler(checks, log),
	}
}

// principal returns the caller set by the session middleware.
func principal(r *http.Request) (entity.Principal, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return entity.Principal{}, false
	}
	role, _ := utils.GetRoleFromContext(r.Context())
	return entity.Principal{UserID: userID, Role: entity.UserRole(role)}, true
}

// decodeJSON reads the request body into dst and answers 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		validationErr *usecase.ValidationError
		authErr       *usecase.AuthError
		notFoundErr   *usecase.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.Is(err, usecase.ErrEmailInUse):
		log.Warn(operation+" failed - email in use", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.As(err, &authErr):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, authErr.Message)

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, "You are not allowed to perform this action")

	case errors.As(err, &notFoundErr):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, notFoundErr.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
