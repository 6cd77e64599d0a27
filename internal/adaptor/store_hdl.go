package adaptor

import (
	"net/http"

	"store-rating/internal/dto/request"
	"store-rating/internal/usecase"
	"store-rating/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type StoreHandler struct {
	service usecase.StoreService
	ratings usecase.RatingService
	log     *zap.Logger
}

func NewStoreHandler(service usecase.StoreService, ratings usecase.RatingService, log *zap.Logger) *StoreHandler {
	return &StoreHandler{
		service: service,
		ratings: ratings,
		log:     log.With(zap.String("handler", "store")),
	}
}

// Create handles POST /stores (admin)
func (h *StoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateStoreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	store, err := h.service.AddStore(r.Context(), p, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "add store")
		return
	}

	utils.ResponseCreated(w, "Store created", store)
}

// Delete handles DELETE /stores/{id} (admin)
func (h *StoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.DeleteStore(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete store")
		return
	}

	utils.ResponseSuccess(w, "Store deleted", nil)
}

// List handles GET /stores
func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.ListStoresRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), request.DefaultPerPage),
		},
		Name:    query.Get("name"),
		Address: query.Get("address"),
		Sort:    query.Get("sort"),
		Order:   query.Get("order"),
	}

	stores, err := h.service.ListStores(r.Context(), p, req)
	if err != nil {
		handleServiceError(w, h.log, err, "list stores")
		return
	}

	utils.ResponseSuccess(w, "success", stores)
}

// Get handles GET /stores/{id}
func (h *StoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	store, err := h.service.GetStoreByID(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get store")
		return
	}
	if store == nil {
		utils.ResponseNotFound(w, "Store not found")
		return
	}

	utils.ResponseSuccess(w, "success", store)
}

// Ratings handles GET /stores/{id}/ratings (admin or the owner)
func (h *StoreHandler) Ratings(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	ratings, err := h.ratings.GetStoreRatings(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get store ratings")
		return
	}

	utils.ResponseSuccess(w, "success", ratings)
}

// Raters handles GET /stores/{id}/raters (admin or the owner)
func (h *StoreHandler) Raters(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	raters, err := h.ratings.GetUsersWhoRatedStore(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get store raters")
		return
	}

	utils.ResponseSuccess(w, "success", raters)
}

// MyRating handles GET /stores/{id}/ratings/me
func (h *StoreHandler) MyRating(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	rating, err := h.ratings.GetUserRating(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get user rating")
		return
	}
	if rating == nil {
		utils.ResponseNotFound(w, "Rating not found")
		return
	}

	utils.ResponseSuccess(w, "success", rating)
}
