// Package http assembles the gin engine and the HTTP server of the API.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/DPR-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/DPR-Intelligence/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware settings of the route
// tree. Nil handlers leave their routes unregistered.
type RouterConfig struct {
	// Handlers
	AnalysisHandler   *handlers.AnalysisHandler
	ChecklistHandler  *handlers.ChecklistHandler
	SimulationHandler *handlers.SimulationHandler
	MitigationHandler *handlers.MitigationHandler
	SearchHandler     *handlers.SearchHandler
	HealthHandler     *handlers.HealthHandler

	// Middleware
	CORS        middleware.CORSConfig
	Logging     middleware.LoggingConfig
	RateLimiter middleware.RateLimiter
	RateLimit   middleware.RateLimitConfig
	MaxBodySize int64

	// Infrastructure
	Logger           logging.Logger
	Metrics          *prometheus.PipelineMetrics
	MetricsCollector prometheus.MetricsCollector
}

// NewRouter builds the engine. Global middleware runs in the order recovery,
// request id, request log, CORS, rate limit, body limit.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogging(cfg.Logger, cfg.Metrics, cfg.Logging))
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter, cfg.RateLimit))
	}
	r.Use(middleware.BodyLimit(cfg.MaxBodySize))

	// --- Probes and metrics ---
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(r)
	}
	if cfg.MetricsCollector != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	// --- API v1 ---
	api := r.Group("/api/v1")
	if cfg.AnalysisHandler != nil {
		cfg.AnalysisHandler.RegisterRoutes(api)
	}
	if cfg.ChecklistHandler != nil {
		cfg.ChecklistHandler.RegisterRoutes(api)
	}
	if cfg.SimulationHandler != nil {
		cfg.SimulationHandler.RegisterRoutes(api)
	}
	if cfg.MitigationHandler != nil {
		cfg.MitigationHandler.RegisterRoutes(api)
	}
	if cfg.SearchHandler != nil {
		cfg.SearchHandler.RegisterRoutes(api)
	}

	r.NoRoute(middleware.NotFound())
	r.NoMethod(middleware.MethodNotAllowed())
	return r
}

//Personal.AI order the ending
