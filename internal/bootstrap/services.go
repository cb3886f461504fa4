package bootstrap

import (
	"context"
	"strings"

	"github.com/turtacn/DPR-Intelligence/internal/application/analysis"
	appchecklist "github.com/turtacn/DPR-Intelligence/internal/application/checklist"
	"github.com/turtacn/DPR-Intelligence/internal/application/mitigation"
	"github.com/turtacn/DPR-Intelligence/internal/application/simulation"
	"github.com/turtacn/DPR-Intelligence/internal/config"
	"github.com/turtacn/DPR-Intelligence/internal/domain/history"
	"github.com/turtacn/DPR-Intelligence/internal/domain/scheme"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/search/opensearch"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/storage/minio"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/gap_analyzer"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/whatif"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// Registry sources.
const (
	SourceMemory   = "memory"
	SourcePostgres = "postgres"
	StoreRedis     = "redis"
)

// Services is the application layer wired over an Infrastructure.
type Services struct {
	Components *analysis.Components
	Analysis   *analysis.Service
	Checklist  *appchecklist.Service
	Simulation *simulation.Service
	Mitigation *mitigation.Registry
	Schemes    scheme.Repository
	// Searcher and Events are nil unless OpenSearch and Kafka are enabled.
	Searcher *opensearch.Searcher
	Events   *kafka.Events
}

// NewServices builds the services. infra may be nil, which runs everything
// in process with no sinks.
func NewServices(ctx context.Context, cfg *config.Config, infra *Infrastructure, metrics *prometheus.PipelineMetrics, logger logging.Logger) (*Services, error) {
	logger = logging.OrNop(logger)
	if infra == nil {
		infra = &Infrastructure{logger: logger}
	}
	s := &Services{}

	if infra.Producer != nil {
		s.Events = kafka.NewEvents(infra.Producer)
	}

	store := gap_analyzer.MustNewChecklistStore(nil)
	var clOpts []appchecklist.Option
	clOpts = append(clOpts, appchecklist.WithLoader(config.LoadChecklistFile))
	if s.Events != nil {
		clOpts = append(clOpts, appchecklist.WithPublisher(s.Events))
	}
	s.Checklist = appchecklist.NewService(store, logger, clOpts...)
	if cfg.Checklist.Path != "" {
		if err := s.Checklist.LoadFile(ctx, cfg.Checklist.Path); err != nil {
			return nil, err
		}
	}

	schemes, err := schemeRepository(ctx, cfg, infra, logger)
	if err != nil {
		return nil, err
	}
	s.Schemes = schemes

	var hist history.Repository
	if infra.Pool != nil {
		hist = repositories.NewHistoryRepository(infra.Pool, logger)
	}

	s.Components = analysis.NewComponents(cfg.Analysis, store, logger)
	s.Mitigation, err = mitigation.NewRegistry(nil, logger)
	if err != nil {
		return nil, err
	}

	sessions, err := sessionStore(cfg.Analysis.Simulation, infra)
	if err != nil {
		return nil, err
	}
	sim := whatif.NewSimulator(s.Components.Calculator, sessions, s.Mitigation, analysis.SimulatorConfig(cfg.Analysis.Simulation), logger)
	profiler := analysis.NewProfiler(s.Components, hist, analysis.DefaultHistoryLimit, logger)
	s.Simulation = simulation.NewService(sim, profiler, metrics, logger)

	var sinks analysis.Sinks
	if infra.MinIO != nil {
		sinks.Archive = minio.NewReportArchive(infra.MinIO, logger)
	}
	if infra.OpenSearch != nil {
		sinks.Indexer = opensearch.NewIndexer(infra.OpenSearch, cfg.OpenSearch.Index, logger)
		s.Searcher = opensearch.NewSearcher(infra.OpenSearch, cfg.OpenSearch.Index, logger)
	}
	if infra.Pool != nil {
		sinks.Runs = repositories.NewAnalysisRunRepository(infra.Pool, logger)
	}
	if s.Events != nil {
		sinks.Events = s.Events
	}

	s.Analysis = analysis.NewService(analysis.Dependencies{
		Components: s.Components,
		Schemes:    schemes,
		History:    hist,
		Sinks:      sinks,
		Sessions:   s.Simulation,
		Metrics:    metrics,
	}, analysis.Config{Timeout: cfg.Analysis.Timeout}, logger)
	return s, nil
}

func schemeRepository(ctx context.Context, cfg *config.Config, infra *Infrastructure, logger logging.Logger) (scheme.Repository, error) {
	catalog := scheme.BuiltinCatalog()
	if cfg.Registry.CatalogPath != "" {
		loaded, err := config.LoadSchemeCatalog(cfg.Registry.CatalogPath)
		if err != nil {
			return nil, err
		}
		catalog = loaded
	}

	var repo scheme.Repository
	switch strings.ToLower(cfg.Registry.Source) {
	case "", SourceMemory:
		return scheme.NewMemoryRepository(catalog), nil
	case SourcePostgres:
		if infra.Pool == nil {
			return nil, apperrors.New(apperrors.ErrCodeSchemeRegistryUnavailable, "postgres scheme registry requires the database")
		}
		pg := repositories.NewSchemeRepository(infra.Pool, logger)
		if err := seedSchemes(ctx, pg, catalog, infra.Redis, logger); err != nil {
			return nil, err
		}
		repo = pg
	default:
		return nil, apperrors.Newf(apperrors.ErrCodeValidation, "unknown scheme registry source %q", cfg.Registry.Source)
	}

	if infra.Redis != nil && cfg.Registry.CacheTTL > 0 {
		cache := redis.NewRedisCache(infra.Redis, logger, redis.WithDefaultTTL(cfg.Registry.CacheTTL))
		repo = redis.NewCachedSchemeRepository(repo, cache, cfg.Registry.CacheTTL, logger)
	}
	return repo, nil
}

// seedSchemes fills an empty registry with catalog. With Redis available the
// seed runs under a lock so concurrent replicas insert once.
func seedSchemes(ctx context.Context, repo scheme.Repository, catalog []scheme.GovernmentScheme, rc *redis.Client, logger logging.Logger) error {
	logger = logging.OrNop(logger)
	if rc != nil {
		mu := redis.NewMutex(rc, "scheme-seed", logger)
		if err := mu.Lock(ctx); err != nil {
			return err
		}
		defer func() {
			if err := mu.Unlock(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("failed to release scheme seed lock", logging.Err(err))
			}
		}()
	}

	existing, err := repo.ListAll(ctx)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeSchemeRegistryUnavailable, "read scheme registry")
	}
	if len(existing) > 0 {
		return nil
	}
	for i := range catalog {
		if err := repo.Upsert(ctx, &catalog[i]); err != nil {
			return err
		}
	}
	logger.Info("seeded scheme registry", logging.Int("schemes", len(catalog)))
	return nil
}

func sessionStore(cfg config.SimulationConfig, infra *Infrastructure) (whatif.SessionStore, error) {
	if strings.EqualFold(cfg.Store, StoreRedis) {
		if infra.Redis == nil {
			return nil, apperrors.New(apperrors.ErrCodeSessionStoreFailed, "redis session store requires redis")
		}
		return redis.NewSessionStore(infra.Redis, cfg.SessionTTL), nil
	}
	return whatif.NewMemoryStore(cfg.MaxSessions, cfg.SessionTTL), nil
}

//Personal.AI order the ending
