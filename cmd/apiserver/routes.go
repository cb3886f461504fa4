package main

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/DPR-Intelligence/internal/bootstrap"
	"github.com/turtacn/DPR-Intelligence/internal/config"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/DPR-Intelligence/internal/interfaces/http"
	"github.com/turtacn/DPR-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/DPR-Intelligence/internal/interfaces/http/middleware"
)

// buildRouter maps the services onto the route tree. The returned cleanup
// stops the rate limiter sweep.
func buildRouter(
	cfg *config.Config,
	svcs *bootstrap.Services,
	infra *bootstrap.Infrastructure,
	metrics *prometheus.PipelineMetrics,
	collector prometheus.MetricsCollector,
	logger logging.Logger,
) (*gin.Engine, func()) {
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.Server.CORSOrigins

	rc := httpserver.RouterConfig{
		AnalysisHandler:   handlers.NewAnalysisHandler(svcs.Analysis, logger),
		ChecklistHandler:  handlers.NewChecklistHandler(svcs.Checklist, logger),
		SimulationHandler: handlers.NewSimulationHandler(svcs.Simulation, logger),
		MitigationHandler: handlers.NewMitigationHandler(svcs.Mitigation, logger),
		HealthHandler:     handlers.NewHealthHandler(version, infra.HealthCheckers()...),

		CORS:        cors,
		Logging:     middleware.DefaultLoggingConfig(),
		MaxBodySize: cfg.Server.MaxBodySize,

		Logger:           logger,
		Metrics:          metrics,
		MetricsCollector: collector,
	}
	if svcs.Searcher != nil {
		rc.SearchHandler = handlers.NewSearchHandler(svcs.Searcher, logger)
	}

	cleanup := func() {}
	if cfg.Server.RateLimitRPS > 0 {
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.Server.RateLimitRPS
		if cfg.Server.RateLimitBurst > 0 {
			rl.BurstSize = cfg.Server.RateLimitBurst
		}
		limiter := middleware.NewKeyedLimiter(rl.RequestsPerSecond, rl.BurstSize, rl.CleanupInterval)
		rc.RateLimiter = limiter
		rc.RateLimit = rl
		cleanup = limiter.Stop
	}
	return httpserver.NewRouter(rc), cleanup
}

//Personal.AI order the ending
