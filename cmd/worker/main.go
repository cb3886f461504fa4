// Command worker consumes analysis requests from Kafka and runs them through
// the analysis pipeline. Completion and failure events are published by the
// pipeline sinks.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/turtacn/DPR-Intelligence/internal/bootstrap"
	"github.com/turtacn/DPR-Intelligence/internal/config"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/DPR-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/DPR-Intelligence/internal/interfaces/worker"
)

const (
	defaultHealthPort = 8081
	drainTimeout      = 30 * time.Second
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

type options struct {
	configPath   string
	envFile      string
	concurrency  int
	healthPort   int
	ensureTopics bool
	replication  int
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to configuration file (default: DPR_* environment only)")
	flag.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the configuration")
	flag.IntVar(&opts.concurrency, "concurrency", 0, "consumers in the group (overrides worker.concurrency)")
	flag.IntVar(&opts.healthPort, "health-port", defaultHealthPort, "port of the health and metrics server")
	flag.BoolVar(&opts.ensureTopics, "ensure-topics", false, "create the platform topics before consuming")
	flag.IntVar(&opts.replication, "replication", 1, "replication factor used with --ensure-topics")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if err := godotenv.Load(opts.envFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read %s: %w", opts.envFile, err)
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if !cfg.Kafka.Enabled {
		return errors.New("kafka must be enabled for the worker")
	}
	concurrency := cfg.Worker.Concurrency
	if opts.concurrency > 0 {
		concurrency = opts.concurrency
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

	logger.Info("starting DPR-Intelligence worker",
		logging.String("version", version),
		logging.String("commit", commit),
		logging.String("built", buildDate),
		logging.Int("concurrency", concurrency),
	)

	var (
		collector prometheus.MetricsCollector
		metrics   *prometheus.PipelineMetrics
	)
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
			ConstLabels:          map[string]string{"component": "worker"},
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize metrics: %w", err)
		}
		metrics = prometheus.NewPipelineMetrics(collector)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.ensureTopics {
		if err := ensureTopics(ctx, cfg.Kafka.Brokers, opts.replication, logger); err != nil {
			return err
		}
	}

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

	var deadLetter kafka.Publisher
	if infra.Producer != nil {
		deadLetter = infra.Producer
	}
	handler := worker.NewHandler(svcs.Analysis, logger)
	consumers := make([]*kafka.Consumer, 0, concurrency)
	// Close is idempotent; the deferred call covers early returns.
	closeConsumers := func() {
		for _, c := range consumers {
			if err := c.Close(); err != nil {
				logger.Warn("consumer close failed", logging.Err(err))
			}
		}
	}
	defer closeConsumers()

	// Consumers share one group, so Kafka spreads partitions across them.
	for i := 0; i < concurrency; i++ {
		c, err := kafka.NewConsumer(
			kafka.ConsumerConfigFrom(cfg.Kafka, kafka.TopicAnalysisRequested),
			deadLetter, metrics, logger.With(logging.Int("consumer", i)),
		)
		if err != nil {
			return fmt.Errorf("failed to create consumer: %w", err)
		}
		consumers = append(consumers, c)
		handler.Register(c)
		if err := c.Start(ctx); err != nil {
			return err
		}
	}

	healthSrv := startHealthServer(opts.healthPort, infra, collector, logger)
	logger.Info("worker started", logging.Int("consumers", len(consumers)))

	<-ctx.Done()
	logger.Info("received shutdown signal, draining consumers")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("health server shutdown error", logging.Err(err))
	}

	closeConsumers()
	var processed, deadLettered int64
	for _, c := range consumers {
		p, d := c.Stats()
		processed += p
		deadLettered += d
	}
	logger.Info("DPR-Intelligence worker stopped",
		logging.Int64("processed", processed),
		logging.Int64("dead_lettered", deadLettered))
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

func ensureTopics(ctx context.Context, brokers []string, replication int, logger logging.Logger) error {
	tm, err := kafka.NewTopicManager(brokers, logger)
	if err != nil {
		return fmt.Errorf("failed to connect topic manager: %w", err)
	}
	defer tm.Close()
	if err := tm.EnsureTopics(ctx, kafka.DefaultTopics(replication)); err != nil {
		return fmt.Errorf("failed to ensure topics: %w", err)
	}
	return nil
}

// startHealthServer exposes the probes and, when enabled, /metrics.
func startHealthServer(port int, infra *bootstrap.Infrastructure, collector prometheus.MetricsCollector, logger logging.Logger) *http.Server {
	r := gin.New()
	r.Use(gin.Recovery())
	handlers.NewHealthHandler(version, infra.HealthCheckers()...).RegisterRoutes(r)
	if collector != nil {
		r.GET("/metrics", gin.WrapH(collector.Handler()))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("health server listening", logging.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server error", logging.Err(err))
		}
	}()
	return srv
}

//Personal.AI order the ending
