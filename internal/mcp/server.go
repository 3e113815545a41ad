// Package mcp exposes the disorder catalog over the Model Context Protocol:
// every record as a resource and a small set of lookup tools.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/catalog"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/domain"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/mcp/resources"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/provider"
)

// Server represents the catalog MCP server
type Server struct {
	config    domain.ConfigManager
	provider  *provider.Provider
	resources *resources.ResourceManager
	mcpServer *mcp.Server
	logger    *logrus.Logger
	title     string
}

// NewServer creates a new MCP server over p and registers its resources and
// tools.
func NewServer(configManager domain.ConfigManager, p *provider.Provider, logger *logrus.Logger) (*Server, error) {
	if p == nil {
		return nil, fmt.Errorf("record provider is required")
	}
	cfg := configManager.GetConfig()

	title := cfg.Catalog.Title
	if title == "" {
		title = catalog.DefaultTitle
	}

	resourceManager := resources.NewResourceManager(logger, cfg.Cache)
	resourceManager.RegisterProvider("disorders", resources.NewDisorderResourceProvider(p, logger))

	serverInfo := &mcp.Implementation{
		Name:    cfg.MCP.ServerName,
		Version: cfg.MCP.ServerVersion,
	}

	server := &Server{
		config:    configManager,
		provider:  p,
		resources: resourceManager,
		mcpServer: mcp.NewServer(serverInfo, nil),
		logger:    logger,
		title:     title,
	}

	if err := server.registerCapabilities(); err != nil {
		return nil, fmt.Errorf("failed to register capabilities: %w", err)
	}

	return server, nil
}

// Start serves MCP over stdin/stdout until ctx is cancelled or the client
// disconnects.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config.GetConfig()
	s.logger.WithFields(logrus.Fields{
		"server":  cfg.MCP.ServerName,
		"version": cfg.MCP.ServerVersion,
		"records": s.provider.Len(),
	}).Info("Starting catalog MCP server on stdio")

	err := s.mcpServer.Run(ctx, &mcp.StdioTransport{})

	stats := s.resources.GetCacheStats()
	s.logger.WithFields(logrus.Fields{
		"cache_hits":    stats.Hits,
		"cache_misses":  stats.Misses,
		"cache_entries": stats.Entries,
	}).Info("Catalog MCP server finished")

	if err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// registerCapabilities registers all MCP resources and tools
func (s *Server) registerCapabilities() error {
	if err := s.registerResources(); err != nil {
		return fmt.Errorf("failed to register resources: %w", err)
	}
	s.registerTools()

	s.logger.Info("Successfully registered all MCP capabilities")
	return nil
}

// registerResources registers the catalog list, one resource per disorder,
// and a template covering any disorder id.
func (s *Server) registerResources() error {
	list, err := s.resources.ListResources(context.Background())
	if err != nil {
		return err
	}

	for _, info := range list.Resources {
		s.mcpServer.AddResource(&mcp.Resource{
			URI:         info.URI,
			Name:        info.Name,
			Description: info.Description,
			MIMEType:    info.MimeType,
			Size:        info.Size,
			Meta:        info.Meta(),
		}, s.readResource)
	}

	s.mcpServer.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: resources.DisorderURITemplate,
		Name:        "disorder",
		Description: "A single corticogenesis disorder by identifier",
		MIMEType:    "application/json",
	}, s.readResource)

	providers := make([]string, 0)
	for _, p := range s.resources.GetProviderInfo() {
		providers = append(providers, p.Name)
	}
	s.logger.WithFields(logrus.Fields{
		"resource_count": len(list.Resources),
		"providers":      providers,
	}).Debug("Registered MCP resources")
	return nil
}

// readResource serves a resource read through the resource manager.
func (s *Server) readResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return s.read(ctx, req.Params.URI)
}

func (s *Server) read(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	content, err := s.resources.GetResource(ctx, uri)
	if err != nil {
		if resources.IsNotFound(err) {
			return nil, mcp.ResourceNotFoundError(uri)
		}
		s.logger.WithError(err).WithField("uri", uri).Error("Failed to read resource")
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      content.URI,
			MIMEType: content.MimeType,
			Text:     content.Text,
			Meta:     content.Meta(),
		}},
	}, nil
}
