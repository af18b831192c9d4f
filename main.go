// main.go
package main

import (
	"context"
	"log"

	"rental-booking/cmd"
	"rental-booking/internal/data/repository"
	"rental-booking/internal/notification"
	"rental-booking/internal/payment"
	"rental-booking/internal/usecase"
	"rental-booking/internal/wire"
	"rental-booking/pkg/database"
	"rental-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
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
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.Migrate {
		if err := database.Migrate(context.Background(), db, logger); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// Tracing exports spans only when TRACING_ENABLED is set
	tracing, shutdownTracing, err := utils.InitTracer(config.Tracing, config.App.Name, config.App.LogPath)
	if err != nil {
		logger.Fatal("Failed to init tracing", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("Failed to flush traces", zap.Error(err))
		}
	}()
	if config.Tracing.Enabled {
		logger.Info("Tracing enabled", zap.Float64("sample_ratio", config.Tracing.SampleRatio))
	}

	clock := utils.SystemClock{}
	deps := usecase.Collaborators{
		Clock:    clock,
		Gateway:  payment.NewStubGateway(clock, logger),
		Notifier: notification.NewLogNotifier(logger),
		Tracing:  tracing,
	}

	// Notification intents go to redis when it is configured
	if config.Redis.Addr != "" {
		client, err := database.InitRedis(config.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer client.Close()

		deps.Notifier = notification.NewRedisNotifier(client, config.Redis.Channel, logger)
		logger.Info("Redis notifier enabled", zap.String("channel", config.Redis.Channel))
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, deps, logger)

	// Start server
	if err := cmd.APIServer(app.Router, config.App.Port, config.App.ShutdownTimeout, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
