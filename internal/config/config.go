// Package config defines the configuration structures for the DPR analysis
// platform. This file holds plain data types and validation only; loading
// lives in loader.go and defaults in defaults.go.
package config

import (
	"fmt"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Interface and infrastructure sections
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimitRPS    float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// LogConfig mirrors logging.LogConfig so this package stays free of
// infrastructure imports.
type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN renders the pgx connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Kafka producer and consumer settings.
type KafkaConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Brokers         []string      `mapstructure:"brokers"`
	ConsumerGroup   string        `mapstructure:"consumer_group"`
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryBackoff    time.Duration `mapstructure:"retry_backoff"`
	BatchTimeout    time.Duration `mapstructure:"batch_timeout"`
	DeadLetterTopic string        `mapstructure:"dead_letter_topic"`
}

// OpenSearchConfig holds search cluster settings.
type OpenSearchConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

// MinIOConfig holds object storage settings for the report archive.
type MinIOConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Region          string `mapstructure:"region"`
	ReportBucket    string `mapstructure:"report_bucket"`
	RetentionDays   int    `mapstructure:"retention_days"` // 0 keeps reports forever
}

// MetricsConfig controls the Prometheus collector.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// WorkerConfig controls the Kafka analysis worker.
type WorkerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// ChecklistConfig points at an optional rubric file that replaces the
// built-in checklist. With Watch set, edits are hot-reloaded.
type ChecklistConfig struct {
	Path  string `mapstructure:"path"`
	Watch bool   `mapstructure:"watch"`
}

// SchemeRegistryConfig selects where the scheme registry is read from. The
// memory source loads CatalogPath when set and the built-in catalog otherwise.
type SchemeRegistryConfig struct {
	Source      string        `mapstructure:"source"` // "memory" | "postgres"
	CatalogPath string        `mapstructure:"catalog_path"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Analysis section
// ─────────────────────────────────────────────────────────────────────────────

// ClassifierConfig tunes section classification.
type ClassifierConfig struct {
	ConfidenceThreshold     float64 `mapstructure:"confidence_threshold"`
	DisableOverlapDetection bool    `mapstructure:"disable_overlap_detection"`
	MinSectionLength        int     `mapstructure:"min_section_length"`
	MaxSections             int     `mapstructure:"max_sections"`
}

// ExtractorConfig tunes entity extraction.
type ExtractorConfig struct {
	MinConfidence    float64 `mapstructure:"min_confidence"`
	ContextWindow    int     `mapstructure:"context_window"`
	BatchConcurrency int     `mapstructure:"batch_concurrency"`
}

// GapConfig tunes gap analysis.
type GapConfig struct {
	LowConfidenceThreshold     float64 `mapstructure:"low_confidence_threshold"`
	SectionCompletionThreshold float64 `mapstructure:"section_completion_threshold"`
}

// AggregatorConfig tunes search metadata aggregation.
type AggregatorConfig struct {
	MaxKeywords int `mapstructure:"max_keywords"`
}

// SchemeMatchConfig tunes scheme verification and discovery.
type SchemeMatchConfig struct {
	FuzzyThreshold      float64 `mapstructure:"fuzzy_threshold"`
	SuggestionThreshold float64 `mapstructure:"suggestion_threshold"`
	MaxSuggestions      int     `mapstructure:"max_suggestions"`
	MinRelevance        float64 `mapstructure:"min_relevance"`
	MaxOpportunities    int     `mapstructure:"max_opportunities"`
}

// ProbabilityConfig tunes the completion probability calculus.
type ProbabilityConfig struct {
	MaxRiskAdjustment  float64 `mapstructure:"max_risk_adjustment"`
	MaxRecommendations int     `mapstructure:"max_recommendations"`
}

// SimulationConfig tunes the what-if simulator and its session store.
type SimulationConfig struct {
	Store       string        `mapstructure:"store"` // "memory" | "redis"
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	MaxSessions int           `mapstructure:"max_sessions"`
	MaxHistory  int           `mapstructure:"max_history"`
}

// AnalysisConfig groups all pipeline tunables.
type AnalysisConfig struct {
	Timeout     time.Duration     `mapstructure:"timeout"`
	Classifier  ClassifierConfig  `mapstructure:"classifier"`
	Extractor   ExtractorConfig   `mapstructure:"extractor"`
	Gap         GapConfig         `mapstructure:"gap"`
	Aggregator  AggregatorConfig  `mapstructure:"aggregator"`
	Schemes     SchemeMatchConfig `mapstructure:"schemes"`
	Probability ProbabilityConfig `mapstructure:"probability"`
	Simulation  SimulationConfig  `mapstructure:"simulation"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration object.
type Config struct {
	Server     ServerConfig         `mapstructure:"server"`
	Log        LogConfig            `mapstructure:"log"`
	Analysis   AnalysisConfig       `mapstructure:"analysis"`
	Checklist  ChecklistConfig      `mapstructure:"checklist"`
	Registry   SchemeRegistryConfig `mapstructure:"registry"`
	Database   DatabaseConfig       `mapstructure:"database"`
	Redis      RedisConfig          `mapstructure:"redis"`
	Kafka      KafkaConfig          `mapstructure:"kafka"`
	OpenSearch OpenSearchConfig     `mapstructure:"opensearch"`
	MinIO      MinIOConfig          `mapstructure:"minio"`
	Metrics    MetricsConfig        `mapstructure:"metrics"`
	Worker     WorkerConfig         `mapstructure:"worker"`
}

var (
	validServerModes = map[string]bool{"debug": true, "release": true, "test": true}
	validLogLevels   = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats  = map[string]bool{"json": true, "console": true}
)

func inUnit(v float64) bool { return v >= 0 && v <= 1 }

// Validate checks cross-field constraints. Infrastructure sections are only
// checked when enabled.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	if !validServerModes[c.Server.Mode] {
		return fmt.Errorf("config: server.mode %q is invalid", c.Server.Mode)
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("config: log.level %q is invalid", c.Log.Level)
	}
	if !validLogFormats[strings.ToLower(c.Log.Format)] {
		return fmt.Errorf("config: log.format %q is invalid", c.Log.Format)
	}

	a := c.Analysis
	if !inUnit(a.Classifier.ConfidenceThreshold) {
		return fmt.Errorf("config: analysis.classifier.confidence_threshold must be in [0,1]")
	}
	if a.Classifier.MaxSections < 1 {
		return fmt.Errorf("config: analysis.classifier.max_sections must be >= 1")
	}
	if !inUnit(a.Extractor.MinConfidence) {
		return fmt.Errorf("config: analysis.extractor.min_confidence must be in [0,1]")
	}
	if !inUnit(a.Gap.LowConfidenceThreshold) || !inUnit(a.Gap.SectionCompletionThreshold) {
		return fmt.Errorf("config: analysis.gap thresholds must be in [0,1]")
	}
	if !inUnit(a.Schemes.FuzzyThreshold) || !inUnit(a.Schemes.SuggestionThreshold) || !inUnit(a.Schemes.MinRelevance) {
		return fmt.Errorf("config: analysis.schemes thresholds must be in [0,1]")
	}
	if a.Schemes.MaxSuggestions < 0 || a.Schemes.MaxOpportunities < 0 {
		return fmt.Errorf("config: analysis.schemes limits must be non-negative")
	}
	switch a.Simulation.Store {
	case "memory":
	case "redis":
		if !c.Redis.Enabled {
			return fmt.Errorf("config: analysis.simulation.store=redis requires redis.enabled")
		}
	default:
		return fmt.Errorf("config: analysis.simulation.store %q is invalid", a.Simulation.Store)
	}
	if a.Probability.MaxRiskAdjustment < 0 || a.Probability.MaxRiskAdjustment > 1 {
		return fmt.Errorf("config: analysis.probability.max_risk_adjustment must be in [0,1]")
	}
	if a.Simulation.MaxSessions < 1 {
		return fmt.Errorf("config: analysis.simulation.max_sessions must be >= 1")
	}

	switch c.Registry.Source {
	case "memory":
	case "postgres":
		if !c.Database.Enabled {
			return fmt.Errorf("config: registry.source=postgres requires database.enabled")
		}
	default:
		return fmt.Errorf("config: registry.source %q is invalid", c.Registry.Source)
	}

	if c.Database.Enabled {
		if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
			return fmt.Errorf("config: database host, user and db_name are required")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("config: database.port %d out of range", c.Database.Port)
		}
		if c.Database.MaxConns < 1 {
			return fmt.Errorf("config: database.max_conns must be >= 1")
		}
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required")
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must not be empty")
		}
		if c.Kafka.ConsumerGroup == "" {
			return fmt.Errorf("config: kafka.consumer_group is required")
		}
	}
	if c.OpenSearch.Enabled && len(c.OpenSearch.Addresses) == 0 {
		return fmt.Errorf("config: opensearch.addresses must not be empty")
	}
	if c.MinIO.Enabled && c.MinIO.Endpoint == "" {
		return fmt.Errorf("config: minio.endpoint is required")
	}
	if c.MinIO.RetentionDays < 0 {
		return fmt.Errorf("config: minio.retention_days must be non-negative")
	}
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("config: worker.concurrency must be >= 1")
	}
	return nil
}

//Personal.AI order the ending
