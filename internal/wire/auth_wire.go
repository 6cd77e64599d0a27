package wire

import (
	"store-rating/internal/adaptor"
	"store-rating/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	sessions middleware.SessionRestorer,
	log *zap.Logger,
) {
	// Public
	r.Post("/sessions", authHandler.Login)
	r.Delete("/sessions", authHandler.Logout)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(sessions, log))

		r.Get("/sessions/current", authHandler.Current)
	})
}
