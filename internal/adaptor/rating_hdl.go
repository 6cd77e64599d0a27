package adaptor

import (
	"net/http"

	"store-rating/internal/dto/request"
	"store-rating/internal/usecase"
	"store-rating/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RatingHandler struct {
	service usecase.RatingService
	log     *zap.Logger
}

func NewRatingHandler(service usecase.RatingService, log *zap.Logger) *RatingHandler {
	return &RatingHandler{
		service: service,
		log:     log.With(zap.String("handler", "rating")),
	}
}

// Submit handles POST /ratings. Resubmitting for the same store updates
// the existing rating.
func (h *RatingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.SubmitRatingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.AddRating(r.Context(), p, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "submit rating")
		return
	}

	if result.Created {
		utils.ResponseCreated(w, "Rating submitted", result)
		return
	}
	utils.ResponseSuccess(w, "Rating updated", result)
}

// Update handles PATCH /ratings/{id} (author only)
func (h *RatingHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateRatingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.UpdateRating(r.Context(), p, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update rating")
		return
	}

	utils.ResponseSuccess(w, "Rating updated", result)
}
