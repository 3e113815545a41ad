package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/cache"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/catalog"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/domain"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/middleware"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/provider"
)

// Server represents the HTTP server
type Server struct {
	configManager domain.ConfigManager
	provider      *provider.Provider
	logger        *logrus.Logger
	router        *gin.Engine
	server        *http.Server
	renders       *cache.Cache[string]
	metrics       *middleware.Metrics
	upgrader      websocket.Upgrader
	title         string
}

// NewServer creates a new HTTP server instance serving the records held by p.
func NewServer(configManager domain.ConfigManager, p *provider.Provider, logger *logrus.Logger) (*Server, error) {
	if p == nil {
		return nil, fmt.Errorf("record provider is required")
	}
	cfg := configManager.GetConfig()

	title := cfg.Catalog.Title
	if title == "" {
		title = catalog.DefaultTitle
	}

	// Set Gin mode based on environment
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &Server{
		configManager: configManager,
		provider:      p,
		logger:        logger,
		router:        gin.New(),
		renders:       cache.New[string](cfg.Cache.MaxItems, cfg.Cache.TTL),
		metrics:       middleware.NewMetrics(p.Len()),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		title: title,
	}

	// Add middleware
	server.router.Use(middleware.CorrelationID())
	server.router.Use(middleware.Recovery(logger))
	server.router.Use(middleware.RequestLogger(logger))
	server.router.Use(server.metrics.Middleware())
	server.router.Use(middleware.SecurityHeaders())
	server.router.Use(middleware.CORS())

	if cfg.RateLimit.Enabled {
		limiter, err := middleware.NewRateLimiter(cfg.RateLimit, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limiter: %w", err)
		}
		server.router.Use(limiter.Middleware())
	}

	server.setupRoutes()

	return server, nil
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port))

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.logger.WithFields(logrus.Fields{
		"addr":    addr,
		"records": s.provider.Len(),
	}).Info("HTTP server listening")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return <-errCh
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	s.router.GET("/", s.handlePage)
	s.router.GET("/ws/disorders", s.handleSnapshotSocket)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/disorders", s.handleListDisorders)
		v1.GET("/disorders/:id", s.handleGetDisorder)
		v1.GET("/disorders/:id/genes", s.handleGetGenes)
		v1.GET("/genes", s.handleFindByGene)
		v1.GET("/cards", s.handleCards)
	}

	s.router.NoRoute(func(c *gin.Context) {
		middleware.AbortWithError(c, http.StatusNotFound, domain.ErrNotFoundCode, "route not found", c.Request.URL.Path)
	})
}
