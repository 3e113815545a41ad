package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/config"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/logging"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/mcp"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/provider"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/snapshot"
)

func main() {
	// stdout carries the protocol stream
	log.SetOutput(os.Stderr)

	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	if cfg.Logging.Output == "" || cfg.Logging.Output == "stdout" {
		cfg.Logging.Output = "stderr"
	}
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

	mcpServer, err := mcp.NewServer(configManager, catalogProvider, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create MCP server")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down MCP server...")
		cancel()
	}()

	if err := mcpServer.Start(ctx); err != nil && ctx.Err() == nil {
		logger.WithError(err).Fatal("MCP server failed")
	}

	logger.Info("Catalog MCP server stopped")
}
