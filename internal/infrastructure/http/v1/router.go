// Package v1 provides HTTP API version 1.
package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"onboarding/internal/domain/session"
	"onboarding/internal/domain/wizard"
	"onboarding/internal/infrastructure/http/v1/handlers"
	"onboarding/internal/infrastructure/http/v1/middleware"
	"onboarding/internal/metadata"
	"onboarding/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Wizard runs the sessions
	Wizard *wizard.Service

	// Tokens issues and validates session tokens
	Tokens *session.TokenService

	// Logger for request logging
	Logger *logger.Logger

	// Store backs the readiness probe (optional)
	Store handlers.Pinger

	// Backend names the snapshot backend for /health/info
	Backend string

	// Version reported by /health/info
	Version string

	// MetadataRegistry stores form definitions
	MetadataRegistry *metadata.Registry

	// RequestObserver records request latency (optional)
	RequestObserver middleware.RequestObserver

	// MetricsHandler serves /metrics when set
	MetricsHandler http.Handler
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	// Field values keep their exact decimal text.
	binding.EnableDecoderUseNumber = true

	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	if cfg.MetadataRegistry == nil {
		cfg.MetadataRegistry = metadata.NewRegistry()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger, cfg.RequestObserver))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Store, cfg.Backend, cfg.Wizard, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	if cfg.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	baseHandler := handlers.NewBaseHandler()

	v1 := router.Group("/api/v1")
	{
		sessionHandler := handlers.NewSessionHandler(baseHandler, cfg.Wizard, cfg.Tokens)
		v1.POST("/sessions", sessionHandler.Open)

		catalogHandler := handlers.NewCatalogHandler(baseHandler, cfg.Wizard.Catalog())
		v1.GET("/catalog", catalogHandler.Get)

		registerMetaRoutes(v1, baseHandler, cfg)

		protected := v1.Group("/wizard")
		protected.Use(middleware.SessionAuth(cfg.Tokens))
		handlers.NewWizardHandler(baseHandler, cfg.Wizard).RegisterRoutes(protected)
	}

	return router
}

// registerMetaRoutes registers metadata/schema endpoints.
func registerMetaRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewMetadataHandler(base, cfg.MetadataRegistry)
	meta := rg.Group("/meta")
	{
		meta.GET("", handler.ListEntities)
		meta.GET("/:name", handler.GetEntity)
	}
}
