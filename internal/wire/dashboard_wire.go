package wire

import (
	"store-rating/internal/adaptor"
	"store-rating/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireDashboard(
	r chi.Router,
	dashboardHandler *adaptor.DashboardHandler,
	sessions middleware.SessionRestorer,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(sessions, log))

		r.Get("/dashboard/admin", dashboardHandler.Admin)
		r.Get("/dashboard/owner", dashboardHandler.Owner)
	})
}
