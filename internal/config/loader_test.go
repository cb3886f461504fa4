package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/domain/scheme"
)

const validConfigYAML = `
server:
  port: 8081
  mode: debug
log:
  level: debug
  format: console
analysis:
  timeout: 10s
  classifier:
    confidence_threshold: 0.4
    max_sections: 12
  simulation:
    session_ttl: 30m
registry:
  source: memory
database:
  enabled: true
  host: localhost
  port: 5432
  user: dpr
  password: secret
  db_name: dpr
kafka:
  brokers: ["broker-1:9092", "broker-2:9092"]
`

func createTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoad_FromFile_ValidConfig(t *testing.T) {
	path := createTempFile(t, "config.yaml", validConfigYAML)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, 10*time.Second, cfg.Analysis.Timeout)
	assert.Equal(t, 0.4, cfg.Analysis.Classifier.ConfidenceThreshold)
	assert.Equal(t, 12, cfg.Analysis.Classifier.MaxSections)
	assert.Equal(t, 30*time.Minute, cfg.Analysis.Simulation.SessionTTL)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Database.Enabled)

	// defaults fill the rest
	assert.Equal(t, DefaultMaxSuggestions, cfg.Analysis.Schemes.MaxSuggestions)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := createTempFile(t, "config.yaml", "server: [")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := createTempFile(t, "config.yaml", "server:\n  port: 70000\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_EnvOverride(t *testing.T) {
	path := createTempFile(t, "config.yaml", validConfigYAML)
	setEnvVars(t, map[string]string{
		"DPR_SERVER_PORT":   "9999",
		"DPR_DATABASE_HOST": "db-host",
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "db-host", cfg.Database.Host)
}

func TestLoadFromEnv_NoFile(t *testing.T) {
	setEnvVars(t, map[string]string{
		"DPR_SERVER_PORT": "7070",
		"DPR_LOG_LEVEL":   "warn",
	})
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestMustLoad(t *testing.T) {
	path := createTempFile(t, "config.yaml", validConfigYAML)
	assert.NotPanics(t, func() { MustLoad(path) })
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "none.yaml")) })
}

const checklistYAML = `
version: "state-pwd-2024"
sections:
  - id: summary
    name: Summary
    section_type: EXECUTIVE_SUMMARY
    weight: 40
    fields:
      - id: name
        name: Project Name
        weight: 40
        required: true
        keywords: ["project"]
  - id: cost
    name: Cost
    section_type: COST_ESTIMATE
    weight: 60
    fields:
      - id: total
        name: Total Cost
        weight: 60
        required: true
        entity_types: ["MONETARY"]
        validation:
          min_length: 3
          pattern: "\\d"
`

func TestLoadChecklistFile(t *testing.T) {
	t.Parallel()
	path := createTempFile(t, "checklist.yaml", checklistYAML)
	c, err := LoadChecklistFile(path)
	require.NoError(t, err)

	assert.Equal(t, "state-pwd-2024", c.Version)
	assert.Equal(t, 100.0, c.TotalWeight)
	require.Len(t, c.Sections, 2)
	assert.Equal(t, dpr.SectionCostEstimate, c.Sections[1].SectionType)
	assert.Equal(t, []dpr.EntityType{dpr.EntityMonetary}, c.Sections[1].Fields[0].EntityTypes)
	require.NotNil(t, c.Sections[1].Fields[0].Validation)
	assert.Equal(t, 3, c.Sections[1].Fields[0].Validation.MinLength)
}

func TestLoadChecklistFile_Invalid(t *testing.T) {
	t.Parallel()
	bad := `
total_weight: 100
sections:
  - id: s
    name: S
    section_type: TIMELINE
    weight: 50
    fields:
      - id: f
        name: F
        weight: 50
`
	path := createTempFile(t, "checklist.yaml", bad)
	_, err := LoadChecklistFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "section weights sum")
}

func TestLoadSchemeCatalog(t *testing.T) {
	t.Parallel()
	content := `{
  "schemes": [
    {"name": "Pradhan Mantri Gram Sadak Yojana", "code": "PMGSY", "sectors": ["roads"], "max_funding": 5000000000},
    {"name": "Closed Mission", "code": "OLD", "status": "CLOSED", "verification_status": "VERIFIED"}
  ]
}`
	path := createTempFile(t, "schemes.json", content)
	schemes, err := LoadSchemeCatalog(path)
	require.NoError(t, err)
	require.Len(t, schemes, 2)

	assert.Equal(t, "scheme-pmgsy", schemes[0].ID)
	assert.Equal(t, scheme.StatusActive, schemes[0].Status)
	assert.Equal(t, scheme.Unverified, schemes[0].VerificationStatus)
	assert.Equal(t, 5e9, schemes[0].MaxFunding)
	assert.Equal(t, scheme.StatusClosed, schemes[1].Status)
}

func TestLoadSchemeCatalog_DuplicateCode(t *testing.T) {
	t.Parallel()
	content := `
schemes:
  - {name: A, code: X1}
  - {name: B, code: x1}
`
	path := createTempFile(t, "schemes.yaml", content)
	_, err := LoadSchemeCatalog(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate scheme code")
}

//Personal.AI order the ending
