// Command generate-results runs the batch SRS risk analysis over the
// upload directory and regenerates the aggregated results.json file
// consumed by the partner dashboard.
package main

import (
	"context"
	"log"

	"github.com/sirupsen/logrus"

	"github.com/IA-PieroCV/Project-Thalassa/internal/analysis"
	"github.com/IA-PieroCV/Project-Thalassa/internal/config"
	"github.com/IA-PieroCV/Project-Thalassa/internal/results"
)

func main() {
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := config.NewLogger(&cfg.Logging)

	analysisService, err := analysis.NewService(logger, &cfg.Storage, &cfg.Analysis)
	if err != nil {
		log.Fatalf("Failed to initialize analysis service: %v", err)
	}

	store, err := results.NewStore(cfg.Storage.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open analysis history store: %v", err)
	}
	defer store.Close()

	generator := results.NewGenerator(logger, analysisService, store, &cfg.Storage, &cfg.Analysis)

	summary, err := generator.Run(context.Background())
	if err != nil {
		logger.WithError(err).Fatal("Fatal error in batch analysis")
	}

	logger.WithFields(logrus.Fields{
		"processed": summary.Processed,
		"errors":    summary.Errors,
		"entries":   summary.Entries,
	}).Info("Batch analysis finished")
}
