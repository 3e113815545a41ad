package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/api"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/config"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/logging"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/provider"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/snapshot"
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
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	defer logging.Close(logger)

	records, err := snapshot.LoadCatalog(context.Background(), cfg.Catalog)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load catalog")
	}
	catalogProvider, err := provider.New(records, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load catalog")
	}

	server, err := api.NewServer(configManager, catalogProvider, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create server")
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.WithField("signal", sig.String()).Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}
