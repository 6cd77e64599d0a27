package adaptor

import (
	"net/http"

	"store-rating/internal/dto/request"
	"store-rating/internal/usecase"
	"store-rating/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	auth    usecase.AuthService
	stores  usecase.StoreService
	log     *zap.Logger
}

func NewUserHandler(
	service usecase.UserService,
	auth usecase.AuthService,
	stores usecase.StoreService,
	log *zap.Logger,
) *UserHandler {
	return &UserHandler{
		service: service,
		auth:    auth,
		stores:  stores,
		log:     log.With(zap.String("handler", "user")),
	}
}

// Create handles POST /users. Anonymous callers register themselves as a
// USER and get a session; an authenticated caller adds a user of any role,
// which only admins may do.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, ok := principal(r)
	if !ok {
		session, err := h.auth.Register(r.Context(), &request.RegisterRequest{
			Name:     req.Name,
			Email:    req.Email,
			Address:  req.Address,
			Password: req.Password,
		})
		if err != nil {
			handleServiceError(w, h.log, err, "register")
			return
		}
		utils.ResponseCreated(w, "Registration successful", session)
		return
	}

	user, err := h.service.AddUser(r.Context(), p, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "add user")
		return
	}

	utils.ResponseCreated(w, "User created", user)
}

// List handles GET /users (admin)
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.ListUsersRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), request.DefaultPerPage),
		},
		Name:    query.Get("name"),
		Email:   query.Get("email"),
		Address: query.Get("address"),
		Role:    query.Get("role"),
		Sort:    query.Get("sort"),
		Order:   query.Get("order"),
	}

	users, err := h.service.ListUsers(r.Context(), p, req)
	if err != nil {
		handleServiceError(w, h.log, err, "list users")
		return
	}

	utils.ResponseSuccess(w, "success", users)
}

// Get handles GET /users/{id} (admin)
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	user, err := h.service.GetUser(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get user")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// Delete handles DELETE /users/{id} (admin)
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.DeleteUser(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete user")
		return
	}

	utils.ResponseSuccess(w, "User deleted", nil)
}

// Stores handles GET /users/{id}/stores (admin or the owner)
func (h *UserHandler) Stores(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	stores, err := h.stores.GetStoresByOwner(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get owner stores")
		return
	}

	utils.ResponseSuccess(w, "success", stores)
}
