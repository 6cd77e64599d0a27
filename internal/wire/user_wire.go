package wire

import (
	"store-rating/internal/adaptor"
	"store-rating/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	authHandler *adaptor.AuthHandler,
	sessions middleware.SessionRestorer,
	log *zap.Logger,
) {
	// Registration for anonymous callers, admin add otherwise
	r.With(middleware.OptionalSession(sessions, log)).Post("/users", userHandler.Create)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(sessions, log))

		r.Get("/users", userHandler.List)
		r.Get("/users/{id}", userHandler.Get)
		r.Delete("/users/{id}", userHandler.Delete)
		r.Get("/users/{id}/stores", userHandler.Stores)
		r.Patch("/users/{id}/password", authHandler.ChangePassword)
	})
}
