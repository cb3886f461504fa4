// Command apiserver serves the DPR analysis HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/turtacn/DPR-Intelligence/internal/bootstrap"
	"github.com/turtacn/DPR-Intelligence/internal/config"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/DPR-Intelligence/internal/interfaces/http"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: DPR_* environment only)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before the configuration")
	flag.Parse()

	if err := run(*configPath, *envFile, *port); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, envFile string, port int) error {
	// A missing .env is normal outside development.
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read %s: %w", envFile, err)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting DPR-Intelligence API server",
		logging.String("version", version),
		logging.String("commit", commit),
		logging.String("built", buildDate),
		logging.Int("port", cfg.Server.Port),
	)
	gin.SetMode(cfg.Server.Mode)

	var (
		collector prometheus.MetricsCollector
		metrics   *prometheus.PipelineMetrics
	)
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize metrics: %w", err)
		}
		metrics = prometheus.NewPipelineMetrics(collector)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	infra, err := bootstrap.NewInfrastructure(ctx, cfg, metrics, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize infrastructure: %w", err)
	}
	defer infra.Close()

	svcs, err := bootstrap.NewServices(ctx, cfg, infra, metrics, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	if cfg.Checklist.Watch && cfg.Checklist.Path != "" {
		if err := svcs.Checklist.Watch(ctx, cfg.Checklist.Path); err != nil {
			return err
		}
	}

	router, cleanup := buildRouter(cfg, svcs, infra, metrics, collector, logger)
	defer cleanup()

	srv := httpserver.NewServer(cfg.Server, router, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("HTTP server shutdown error", logging.Err(err))
	}
	logger.Info("DPR-Intelligence API server stopped")
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

//Personal.AI order the ending
