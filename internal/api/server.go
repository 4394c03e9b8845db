package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/IA-PieroCV/Project-Thalassa/internal/analysis"
	"github.com/IA-PieroCV/Project-Thalassa/internal/auth"
	"github.com/IA-PieroCV/Project-Thalassa/internal/domain"
	"github.com/IA-PieroCV/Project-Thalassa/internal/middleware"
	"github.com/IA-PieroCV/Project-Thalassa/internal/results"
	"github.com/IA-PieroCV/Project-Thalassa/internal/upload"
)

// Version is the reported service version
const Version = "0.1.0"

// Server represents the HTTP server
type Server struct {
	configManager   domain.ConfigManager
	logger          *logrus.Logger
	uploadService   *upload.Service
	authService     *auth.Service
	analysisService *analysis.Service
	store           *results.Store
	router          *gin.Engine
	server          *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(
	configManager domain.ConfigManager,
	logger *logrus.Logger,
	uploadService *upload.Service,
	authService *auth.Service,
	analysisService *analysis.Service,
	store *results.Store,
) *Server {
	cfg := configManager.GetConfig()

	// Set Gin mode based on environment
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())
	router.Use(middleware.CorrelationID())

	server := &Server{
		configManager:   configManager,
		logger:          logger,
		uploadService:   uploadService,
		authService:     authService,
		analysisService: analysisService,
		store:           store,
		router:          router,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// Router exposes the gin engine, primarily for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until the context is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	serverCfg := s.configManager.GetServerConfig()

	s.router.GET("/", s.handleRoot)
	s.router.GET("/health", s.handleHealth)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/upload",
			middleware.UploadRateLimit(serverCfg.UploadRateLimit, serverCfg.UploadBurst),
			s.handleUpload)
		v1.GET("/upload/files", s.handleListFiles)
		v1.GET("/upload/health", s.handleUploadHealth)

		authed := v1.Group("", middleware.RequireBearerAuth(s.authService))
		{
			authed.GET("/results", s.handleResults)
			authed.GET("/dashboard", s.handleDashboard)
		}
		v1.GET("/dashboard/health", s.handleDashboardHealth)
	}
}

// handleRoot handles the root health message
func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Project Thalassa API is running",
	})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "thalassa-api",
		"version": Version,
	})
}
