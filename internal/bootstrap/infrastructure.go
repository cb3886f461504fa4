// Package bootstrap builds the platform's adapters and services from
// configuration. The API server, the worker and dprctl share it.
package bootstrap

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/DPR-Intelligence/internal/config"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/search/opensearch"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/storage/minio"
	"github.com/turtacn/DPR-Intelligence/internal/interfaces/http/handlers"
)

// Infrastructure holds the external adapters enabled in config. Disabled
// adapters are nil.
type Infrastructure struct {
	Pool       *pgxpool.Pool
	Redis      *redis.Client
	MinIO      *minio.Client
	OpenSearch *opensearch.Client
	Producer   *kafka.Producer

	logger  logging.Logger
	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

// NewInfrastructure connects every enabled adapter. On error the adapters
// opened so far are closed.
func NewInfrastructure(ctx context.Context, cfg *config.Config, metrics *prometheus.PipelineMetrics, logger logging.Logger) (*Infrastructure, error) {
	logger = logging.OrNop(logger)
	infra := &Infrastructure{logger: logger}

	if err := infra.open(ctx, cfg, metrics); err != nil {
		infra.Close()
		return nil, err
	}
	return infra, nil
}

func (i *Infrastructure) open(ctx context.Context, cfg *config.Config, metrics *prometheus.PipelineMetrics) error {
	if cfg.Database.Enabled {
		if cfg.Database.AutoMigrate {
			if err := migrateUp(cfg.Database, i.logger); err != nil {
				return err
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.Database, i.logger)
		if err != nil {
			return err
		}
		i.Pool = pool
		i.onClose("postgres", func() error { pool.Close(); return nil })
	}

	if cfg.Redis.Enabled {
		rc, err := redis.NewClient(cfg.Redis, i.logger)
		if err != nil {
			return err
		}
		i.Redis = rc
		i.onClose("redis", rc.Close)
	}

	if cfg.MinIO.Enabled {
		mc, err := minio.NewClient(ctx, cfg.MinIO, i.logger)
		if err != nil {
			return err
		}
		i.MinIO = mc
		i.onClose("minio", mc.Close)
		if err := mc.EnsureBucket(ctx, cfg.MinIO.RetentionDays); err != nil {
			return err
		}
	}

	if cfg.OpenSearch.Enabled {
		oc, err := opensearch.NewClient(opensearch.ClientConfigFrom(cfg.OpenSearch), i.logger)
		if err != nil {
			return err
		}
		i.OpenSearch = oc
		if err := opensearch.NewIndexer(oc, cfg.OpenSearch.Index, i.logger).EnsureIndex(ctx); err != nil {
			return err
		}
	}

	if cfg.Kafka.Enabled {
		p, err := kafka.NewProducer(kafka.ProducerConfigFrom(cfg.Kafka), metrics, i.logger)
		if err != nil {
			return err
		}
		i.Producer = p
		i.onClose("kafka producer", p.Close)
	}
	return nil
}

func migrateUp(cfg config.DatabaseConfig, logger logging.Logger) error {
	m, err := postgres.NewMigrator(cfg.DSN(), logger)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

func (i *Infrastructure) onClose(name string, fn func() error) {
	i.closers = append(i.closers, namedCloser{name: name, close: fn})
}

// Close releases adapters in reverse order of opening.
func (i *Infrastructure) Close() {
	if i == nil {
		return
	}
	for n := len(i.closers) - 1; n >= 0; n-- {
		c := i.closers[n]
		if err := c.close(); err != nil {
			i.logger.Warn("failed to close adapter", logging.String("adapter", c.name), logging.Err(err))
		}
	}
	i.closers = nil
}

// HealthCheckers returns one readiness check per connected adapter.
func (i *Infrastructure) HealthCheckers() []handlers.HealthChecker {
	if i == nil {
		return nil
	}
	var checks []handlers.HealthChecker
	if i.Pool != nil {
		pool := i.Pool
		checks = append(checks, handlers.CheckFunc{CheckName: "postgres", Fn: func(ctx context.Context) error {
			return postgres.HealthCheck(ctx, pool, i.logger)
		}})
	}
	if i.Redis != nil {
		checks = append(checks, handlers.CheckFunc{CheckName: "redis", Fn: i.Redis.Ping})
	}
	if i.MinIO != nil {
		checks = append(checks, handlers.CheckFunc{CheckName: "minio", Fn: i.MinIO.HealthCheck})
	}
	if i.OpenSearch != nil {
		checks = append(checks, handlers.CheckFunc{CheckName: "opensearch", Fn: i.OpenSearch.Ping})
	}
	return checks
}

//Personal.AI order the ending
