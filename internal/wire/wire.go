package wire

import (
	"store-rating/internal/adaptor"
	"store-rating/internal/data/repository"
	"store-rating/internal/usecase"
	"store-rating/pkg/middleware"
	"store-rating/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the wired HTTP stack and the services behind it.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes on top of repo.
func Wiring(
	repo *repository.Repository,
	checks map[string]adaptor.HealthCheck,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, logger)
	handler := adaptor.NewHandler(service, checks, logger)

	router := setupRouter(handler, service, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(chimw.Timeout(config.Server.RequestTimeout))

	wireAuth(r, handler.Auth, service.Auth, logger)
	wireUser(r, handler.User, handler.Auth, service.Auth, logger)
	wireStore(r, handler.Store, service.Auth, logger)
	wireRating(r, handler.Rating, service.Auth, logger)
	wireDashboard(r, handler.Dashboard, service.Auth, logger)

	r.Get("/health", handler.Health.Health)

	return r
}
