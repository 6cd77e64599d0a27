package main

import (
	"context"
	"flag"
	"log"
	"time"

	"store-rating/cmd"
	"store-rating/internal/adaptor"
	"store-rating/internal/data/memory"
	"store-rating/internal/data/repository"
	"store-rating/internal/wire"
	"store-rating/pkg/database"
	"store-rating/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	envFile := flag.String("config", ".env", "path to the .env config file")
	flag.Parse()

	// Load config
	config, err := utils.LoadConfig(*envFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("storage", config.App.StorageDriver),
		zap.String("sessions", config.Session.Store),
	)

	checks := make(map[string]adaptor.HealthCheck)

	// Connect to database
	var db database.PgxIface
	if config.App.StorageDriver == utils.StorageDriverPostgres {
		if config.Database.Migrate {
			if err := database.Migrate(database.ConnString(config.Database), logger); err != nil {
				logger.Fatal("Failed to run migrations", zap.Error(err))
			}
		}

		db, err = database.InitDB(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		checks["postgres"] = db.Ping
		logger.Info("Database connected successfully")
	}

	// Session store
	var sessions repository.SessionRepository
	switch config.Session.Store {
	case utils.SessionStoreRedis:
		client, err := database.InitRedis(config.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer client.Close()

		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		sessions = repository.NewRedisSessionRepository(client, config.Redis.Prefix, logger)
		logger.Info("Redis connected successfully")
	case utils.SessionStorePostgres:
		sessions = repository.NewSessionRepository(db, logger)
	default:
		sessions = memory.NewSessionRepository()
	}

	// Initialize all repositories
	var repos *repository.Repository
	if db != nil {
		repos = repository.NewRepository(db, sessions, logger)
	} else {
		repos = memory.NewRepository(memory.NewDB(), sessions)
	}

	// Wire all dependencies
	app := wire.Wiring(repos, checks, config, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := app.Service.Auth.EnsureAdmin(ctx, config.Admin); err != nil {
		logger.Fatal("Failed to bootstrap admin", zap.Error(err))
	}
	if err := sessions.CleanExpiredSessions(ctx); err != nil {
		logger.Warn("Failed to clean expired sessions", zap.Error(err))
	}
	cancel()

	// Start server
	if err := cmd.APIServer(app.Router, config, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
}
