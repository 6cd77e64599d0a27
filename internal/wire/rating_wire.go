package wire

import (
	"store-rating/internal/adaptor"
	"store-rating/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireRating(
	r chi.Router,
	ratingHandler *adaptor.RatingHandler,
	sessions middleware.SessionRestorer,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(sessions, log))

		r.Post("/ratings", ratingHandler.Submit)
		r.Patch("/ratings/{id}", ratingHandler.Update)
	})
}
