package adaptor

import (
	"net/http"

	"store-rating/internal/dto/request"
	"store-rating/internal/dto/response"
	"store-rating/internal/usecase"
	"store-rating/pkg/middleware"
	"store-rating/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Login handles POST /sessions
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.service.Login(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "login")
		return
	}

	utils.ResponseCreated(w, "Login successful", session)
}

// Logout handles DELETE /sessions. It succeeds for a missing, unknown or
// already revoked token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.BearerToken(r)

	if err := h.service.Logout(r.Context(), token); err != nil {
		handleServiceError(w, h.log, err, "logout")
		return
	}

	utils.ResponseSuccess(w, "Logout successful", nil)
}

// Current handles GET /sessions/current (protected)
func (h *AuthHandler) Current(w http.ResponseWriter, r *http.Request) {
	token, _ := utils.GetTokenFromContext(r.Context())

	session, err := h.service.Restore(r.Context(), token)
	if err != nil {
		handleServiceError(w, h.log, err, "restore session")
		return
	}
	if session == nil {
		utils.ResponseUnauthorized(w, "Invalid or expired session")
		return
	}

	utils.ResponseSuccess(w, "success", response.SessionToResponse(session))
}

// ChangePassword handles PATCH /users/{id}/password (protected, self only)
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	if chi.URLParam(r, "id") != p.UserID.String() {
		utils.ResponseForbidden(w, "You can only change your own password")
		return
	}

	var req request.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, _ := utils.GetTokenFromContext(r.Context())
	if err := h.service.ChangePassword(r.Context(), token, &req); err != nil {
		handleServiceError(w, h.log, err, "change password")
		return
	}

	utils.ResponseSuccess(w, "Password updated", nil)
}
