package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jwtkit/jwtkit/internal"
	"github.com/jwtkit/jwtkit/internal/config"
	"github.com/jwtkit/jwtkit/internal/database"
	"github.com/jwtkit/jwtkit/internal/issuer"
	"github.com/jwtkit/jwtkit/internal/logging"
	"github.com/jwtkit/jwtkit/internal/routes"
)

func main() {
	// Load the optional .env file before anything reads the environment
	_ = godotenv.Load()

	// Initialize shared dependencies
	logger := logging.NewLogger(os.Getenv("LOG_FORMAT"), os.Getenv("LOG_LEVEL"))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String(logging.ErrorKey, err.Error()))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.String("api_addr", cfg.APIAddr()),
		slog.String("health_addr", cfg.HealthAddr()),
		slog.String("issuer", cfg.Issuer),
	)

	// Connect to PostgreSQL and initialise schema
	db, err := database.Connect(cfg.PostgresConnString())
	if err != nil {
		logger.Error("failed to initialise database", slog.String(logging.ErrorKey, err.Error()))
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("database ready")

	// Create health check and token http services
	healthService := internal.NewService(internal.ServiceConfig{
		Addr:         cfg.HealthAddr(),
		Logger:       logger,
		Routes:       routes.RegisterHealthRoutes(db),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	})
	apiService := internal.NewService(internal.ServiceConfig{
		Addr:         cfg.APIAddr(),
		Logger:       logger,
		Routes:       routes.RegisterTokenRoutes(db, cfg.AuthConfig(), cfg.RateLimitConfig(), issuer.New(cfg.Issuer)),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	})

	// Start http service threads
	go func() {
		if err := healthService.ListenAndServeWrapper("health check api"); err != nil && err != http.ErrServerClosed {
			logger.Error("health check service failed", slog.String(logging.ErrorKey, err.Error()))
			os.Exit(1)
		}
	}()
	go func() {
		if err := apiService.ListenAndServeWrapper("token api"); err != nil && err != http.ErrServerClosed {
			logger.Error("token service failed", slog.String(logging.ErrorKey, err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit

	// Shutdown http service threads gracefully
	logger.Info("shutting down service", slog.Any("OS signal received", os.Signal.String(receivedSignal)))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiService.Shutdown(ctx); err != nil {
		logger.Error("API service shutdown error", slog.String(logging.ErrorKey, err.Error()))
	}
	if err := healthService.Shutdown(ctx); err != nil {
		logger.Error("health service shutdown error", slog.String(logging.ErrorKey, err.Error()))
	}
	logger.Info("exiting...")
}
