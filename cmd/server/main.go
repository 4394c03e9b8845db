package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/IA-PieroCV/Project-Thalassa/internal/analysis"
	"github.com/IA-PieroCV/Project-Thalassa/internal/api"
	"github.com/IA-PieroCV/Project-Thalassa/internal/auth"
	"github.com/IA-PieroCV/Project-Thalassa/internal/config"
	"github.com/IA-PieroCV/Project-Thalassa/internal/results"
	"github.com/IA-PieroCV/Project-Thalassa/internal/upload"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := config.NewLogger(&cfg.Logging)
	logger.Infof("Starting Project Thalassa on %s:%d", cfg.Server.Host, cfg.Server.Port)

	// Wire services
	uploadService, err := upload.NewService(logger, &cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize upload service: %v", err)
	}

	authService := auth.NewService(logger, &cfg.Auth)

	analysisService, err := analysis.NewService(logger, &cfg.Storage, &cfg.Analysis)
	if err != nil {
		log.Fatalf("Failed to initialize analysis service: %v", err)
	}

	store, err := results.NewStore(cfg.Storage.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open analysis history store: %v", err)
	}
	defer store.Close()

	// Create server
	server := api.NewServer(configManager, logger, uploadService, authService, analysisService, store)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Start server
	if err := server.Start(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}

	logger.Info("Server stopped")
}
