package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/school-marketplace/internal/activity"
	"github.com/dvloznov/school-marketplace/internal/activity/inmemory"
	"github.com/dvloznov/school-marketplace/internal/api/handlers"
	"github.com/dvloznov/school-marketplace/internal/api/middleware"
	"github.com/dvloznov/school-marketplace/internal/config"
	"github.com/dvloznov/school-marketplace/internal/logger"
)

func main() {
	// Parse command-line flags
	var (
		configPath = flag.String("config", os.Getenv("MARKETPLACE_CONFIG"), "YAML config file (or set MARKETPLACE_CONFIG env)")
		port       = flag.String("port", "", "HTTP server port (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := logger.Default()
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	// Initialize logger
	log, err := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		bootLog := logger.Default()
		bootLog.Fatal().Err(err).Msg("Failed to create logger")
	}

	ctx := logger.WithContext(context.Background(), log)

	// Initialize the mock activity table
	store := inmemory.NewStore()
	if cfg.Seed.Demo {
		if err := store.Seed(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed demo records")
		}
	}

	if cfg.Seed.Path != "" {
		// malformed fields are logged through the context logger
		if _, err := store.LoadFile(ctx, cfg.Seed.Path); err != nil {
			log.Fatal().Err(err).Str("path", cfg.Seed.Path).Msg("Failed to load seed records")
		}
	}
	log.Info().Int("records", store.Len()).Msg("Activity table ready")

	// Initialize handlers
	normalizer := activity.NewNormalizer(activity.SystemClock)
	transactionsHandler := handlers.NewTransactionsHandler(store, normalizer, log)
	mux := handlers.Routes(transactionsHandler)

	// Apply middleware
	handler := middleware.Chain(mux,
		middleware.Recovery(log),
		middleware.Logger(log),
		middleware.RequestID,
		middleware.CORS,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
