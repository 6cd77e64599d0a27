package wire

import (
	"store-rating/internal/adaptor"
	"store-rating/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireStore(
	r chi.Router,
	storeHandler *adaptor.StoreHandler,
	sessions middleware.SessionRestorer,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(sessions, log))

		r.Post("/stores", storeHandler.Create)
		r.Get("/stores", storeHandler.List)
		r.Get("/stores/{id}", storeHandler.Get)
		r.Delete("/stores/{id}", storeHandler.Delete)
		r.Get("/stores/{id}/ratings", storeHandler.Ratings)
		r.Get("/stores/{id}/ratings/me", storeHandler.MyRating)
		r.Get("/stores/{id}/raters", storeHandler.Raters)
	})
}
