// main.go
package main

import (
	"log"

	"yoga-studio/cmd"
	"yoga-studio/internal/data/repository"
	"yoga-studio/internal/wire"
	"yoga-studio/pkg/cache"
	"yoga-studio/pkg/database"
	"yoga-studio/pkg/mailer"
	"yoga-studio/pkg/payment"
	"yoga-studio/pkg/utils"

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

	// Catalog cache; runs disabled when no Redis is configured
	store := cache.New(config.Redis, logger)

	// Outbound email; runs disabled when no SMTP is configured
	mail := mailer.New(config.Email, logger)

	// Payment provider for paid class checkout
	provider := payment.NewStripeProvider(config.Stripe, logger)

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, store, mail, provider, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
