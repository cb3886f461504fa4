package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort      = 8080
	DefaultServerMode      = "release"
	DefaultMaxBodySize     = 8 << 20
	DefaultRateLimitRPS    = 20.0
	DefaultRateLimitBurst  = 40
	DefaultShutdownTimeout = 15 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultAnalysisTimeout = 30 * time.Second

	DefaultConfidenceThreshold = 0.3
	DefaultMinSectionLength    = 20
	DefaultMaxSections         = 20

	DefaultExtractorMinConfidence = 0.5
	DefaultContextWindow          = 50
	DefaultBatchConcurrency       = 4

	DefaultLowConfidenceThreshold     = 0.7
	DefaultSectionCompletionThreshold = 0.5

	DefaultMaxKeywords = 25

	DefaultFuzzyThreshold      = 0.8
	DefaultSuggestionThreshold = 0.7
	DefaultMaxSuggestions      = 10
	DefaultMinRelevance        = 0.4
	DefaultMaxOpportunities    = 8

	DefaultMaxRiskAdjustment  = 0.4
	DefaultMaxRecommendations = 8

	DefaultSessionStore = "memory"
	DefaultSessionTTL   = 2 * time.Hour
	DefaultMaxSessions  = 1000
	DefaultMaxHistory   = 50

	DefaultRegistrySource = "memory"
	DefaultRegistryTTL    = 10 * time.Minute

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "dpr"
	DefaultDBMaxConns = 20

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "dpr:"

	DefaultKafkaBroker     = "localhost:9092"
	DefaultKafkaGroupID    = "dpr-analysis-worker"
	DefaultKafkaMaxRetries = 3
	DefaultDeadLetterTopic = "dpr.analysis.dlq"

	DefaultOpenSearchAddr  = "http://localhost:9200"
	DefaultOpenSearchIndex = "dpr-documents"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultReportBucket  = "dpr-reports"

	DefaultMetricsNamespace = "dpr"
	DefaultMetricsPath      = "/metrics"

	DefaultWorkerConcurrency = 4
)

// ApplyDefaults fills every zero-value field in cfg with the platform default.
// Explicitly set values are left unchanged. Call it after unmarshalling and
// before Validate.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.RateLimitRPS == 0 {
		cfg.Server.RateLimitRPS = DefaultRateLimitRPS
	}
	if cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = DefaultRateLimitBurst
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Analysis ──────────────────────────────────────────────────────────────
	a := &cfg.Analysis
	if a.Timeout == 0 {
		a.Timeout = DefaultAnalysisTimeout
	}
	if a.Classifier.ConfidenceThreshold == 0 {
		a.Classifier.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if a.Classifier.MinSectionLength == 0 {
		a.Classifier.MinSectionLength = DefaultMinSectionLength
	}
	if a.Classifier.MaxSections == 0 {
		a.Classifier.MaxSections = DefaultMaxSections
	}
	if a.Extractor.MinConfidence == 0 {
		a.Extractor.MinConfidence = DefaultExtractorMinConfidence
	}
	if a.Extractor.ContextWindow == 0 {
		a.Extractor.ContextWindow = DefaultContextWindow
	}
	if a.Extractor.BatchConcurrency == 0 {
		a.Extractor.BatchConcurrency = DefaultBatchConcurrency
	}
	if a.Gap.LowConfidenceThreshold == 0 {
		a.Gap.LowConfidenceThreshold = DefaultLowConfidenceThreshold
	}
	if a.Gap.SectionCompletionThreshold == 0 {
		a.Gap.SectionCompletionThreshold = DefaultSectionCompletionThreshold
	}
	if a.Aggregator.MaxKeywords == 0 {
		a.Aggregator.MaxKeywords = DefaultMaxKeywords
	}
	if a.Schemes.FuzzyThreshold == 0 {
		a.Schemes.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if a.Schemes.SuggestionThreshold == 0 {
		a.Schemes.SuggestionThreshold = DefaultSuggestionThreshold
	}
	if a.Schemes.MaxSuggestions == 0 {
		a.Schemes.MaxSuggestions = DefaultMaxSuggestions
	}
	if a.Schemes.MinRelevance == 0 {
		a.Schemes.MinRelevance = DefaultMinRelevance
	}
	if a.Schemes.MaxOpportunities == 0 {
		a.Schemes.MaxOpportunities = DefaultMaxOpportunities
	}
	if a.Probability.MaxRiskAdjustment == 0 {
		a.Probability.MaxRiskAdjustment = DefaultMaxRiskAdjustment
	}
	if a.Probability.MaxRecommendations == 0 {
		a.Probability.MaxRecommendations = DefaultMaxRecommendations
	}
	if a.Simulation.Store == "" {
		a.Simulation.Store = DefaultSessionStore
	}
	if a.Simulation.SessionTTL == 0 {
		a.Simulation.SessionTTL = DefaultSessionTTL
	}
	if a.Simulation.MaxSessions == 0 {
		a.Simulation.MaxSessions = DefaultMaxSessions
	}
	if a.Simulation.MaxHistory == 0 {
		a.Simulation.MaxHistory = DefaultMaxHistory
	}

	// ── Registry ──────────────────────────────────────────────────────────────
	if cfg.Registry.Source == "" {
		cfg.Registry.Source = DefaultRegistrySource
	}
	if cfg.Registry.CacheTTL == 0 {
		cfg.Registry.CacheTTL = DefaultRegistryTTL
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = time.Hour
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30 * time.Minute
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	// DB 0 is both the default and a valid explicit value, so it is left as is.
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = 3 * time.Second
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = 3 * time.Second
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.ConsumerGroup == "" {
		cfg.Kafka.ConsumerGroup = DefaultKafkaGroupID
	}
	if cfg.Kafka.MaxRetries == 0 {
		cfg.Kafka.MaxRetries = DefaultKafkaMaxRetries
	}
	if cfg.Kafka.RetryBackoff == 0 {
		cfg.Kafka.RetryBackoff = 500 * time.Millisecond
	}
	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = 50 * time.Millisecond
	}
	if cfg.Kafka.DeadLetterTopic == "" {
		cfg.Kafka.DeadLetterTopic = DefaultDeadLetterTopic
	}

	// ── OpenSearch ────────────────────────────────────────────────────────────
	if len(cfg.OpenSearch.Addresses) == 0 {
		cfg.OpenSearch.Addresses = []string{DefaultOpenSearchAddr}
	}
	if cfg.OpenSearch.Index == "" {
		cfg.OpenSearch.Index = DefaultOpenSearchIndex
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.ReportBucket == "" {
		cfg.MinIO.ReportBucket = DefaultReportBucket
	}
	if cfg.MinIO.Region == "" {
		cfg.MinIO.Region = "us-east-1"
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = DefaultWorkerConcurrency
	}
}

// NewDefault returns a Config with every default applied. The CLI uses it when
// no config file is given.
func NewDefault() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending
