package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/turtacn/DPR-Intelligence/internal/domain/checklist"
	"github.com/turtacn/DPR-Intelligence/internal/domain/scheme"
)

// envPrefix is the environment variable prefix used by all platform settings.
const envPrefix = "DPR"

// newViper builds a Viper instance with YAML type, DPR_ env prefix and a
// key replacer so "database.host" resolves to DPR_DATABASE_HOST.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnvKeys(v)
	return v
}

// bindEnvKeys registers the keys that are commonly overridden from the
// environment. AutomaticEnv only resolves keys viper already knows about, so
// without this a file-less LoadFromEnv would ignore them.
func bindEnvKeys(v *viper.Viper) {
	for _, k := range []string{
		"server.port", "server.mode",
		"log.level", "log.format",
		"analysis.timeout", "analysis.simulation.store",
		"checklist.path", "checklist.watch",
		"registry.source", "registry.catalog_path",
		"database.enabled", "database.host", "database.port", "database.user",
		"database.password", "database.db_name", "database.ssl_mode", "database.auto_migrate",
		"redis.enabled", "redis.addr", "redis.password", "redis.db",
		"kafka.enabled", "kafka.brokers", "kafka.consumer_group",
		"opensearch.enabled", "opensearch.addresses", "opensearch.username", "opensearch.password",
		"minio.enabled", "minio.endpoint", "minio.access_key_id", "minio.secret_access_key", "minio.use_ssl",
		"metrics.enabled",
		"worker.concurrency",
	} {
		_ = v.BindEnv(k)
	}
}

// Load reads the YAML file at configPath, merges DPR_* environment overrides,
// applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from DPR_* environment variables alone.
//
//	DPR_<SECTION>_<FIELD>   e.g.  DPR_DATABASE_HOST, DPR_REDIS_ADDR
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the re-parsed Config on
// every change. Invalid edits are skipped so the running process keeps its
// last good configuration. Watch does not block.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad panics when Load fails. main() only.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

// ─────────────────────────────────────────────────────────────────────────────
// Data files
// ─────────────────────────────────────────────────────────────────────────────

// useJSONTags lets data files share the json field names of the domain types.
func useJSONTags(dc *mapstructure.DecoderConfig) {
	dc.TagName = "json"
	dc.WeaklyTypedInput = true
}

func readDataFile(path string) (*viper.Viper, error) {
	v := viper.New()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		v.SetConfigType("json")
	default:
		v.SetConfigType("yaml")
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return v, nil
}

// LoadChecklistFile reads a YAML or JSON rubric. A missing total_weight
// defaults to 100. The result is validated before it is returned.
func LoadChecklistFile(path string) (*checklist.Checklist, error) {
	v, err := readDataFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read checklist %q: %w", path, err)
	}
	c := &checklist.Checklist{}
	if err := v.Unmarshal(c, useJSONTags); err != nil {
		return nil, fmt.Errorf("config: failed to decode checklist %q: %w", path, err)
	}
	if c.TotalWeight == 0 {
		c.TotalWeight = checklist.DefaultTotalWeight
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

type schemeCatalogFile struct {
	Schemes []scheme.GovernmentScheme `json:"schemes"`
}

// LoadSchemeCatalog reads a registry file whose top-level key is "schemes".
// Missing status fields default to ACTIVE / UNVERIFIED.
func LoadSchemeCatalog(path string) ([]scheme.GovernmentScheme, error) {
	v, err := readDataFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read scheme catalog %q: %w", path, err)
	}
	var f schemeCatalogFile
	if err := v.Unmarshal(&f, useJSONTags); err != nil {
		return nil, fmt.Errorf("config: failed to decode scheme catalog %q: %w", path, err)
	}
	seen := make(map[string]struct{}, len(f.Schemes))
	for i := range f.Schemes {
		s := &f.Schemes[i]
		if strings.TrimSpace(s.Name) == "" || strings.TrimSpace(s.Code) == "" {
			return nil, fmt.Errorf("config: scheme #%d in %q needs both name and code", i, path)
		}
		key := strings.ToUpper(s.Code)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("config: duplicate scheme code %q in %q", s.Code, path)
		}
		seen[key] = struct{}{}
		if s.ID == "" {
			s.ID = "scheme-" + strings.ToLower(s.Code)
		}
		if s.Status == "" {
			s.Status = scheme.StatusActive
		}
		if s.VerificationStatus == "" {
			s.VerificationStatus = scheme.Unverified
		}
	}
	return f.Schemes, nil
}

//Personal.AI order the ending
