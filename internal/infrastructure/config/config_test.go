package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
storage:
  database_path: /tmp/test.db
detection:
  min_occurrences: 5
  min_confidence: 0.8
  lookback_months: 12
api:
  port: 9090
observability:
  logging:
    level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 5, cfg.Detection.MinOccurrences)
	assert.InDelta(t, 0.8, cfg.Detection.MinConfidence, 1e-9)
	assert.Equal(t, 12, cfg.Detection.LookbackMonths)
	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
}

func TestLoad_DefaultsForMissingSections(t *testing.T) {
	path := writeConfig(t, `
storage:
  database_path: /tmp/test.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Detection.MinOccurrences)
	assert.InDelta(t, 0.75, cfg.Detection.MinConfidence, 1e-9)
	assert.Equal(t, 18, cfg.Detection.LookbackMonths)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("TEST_DB_PATH", "/tmp/expanded.db")
	path := writeConfig(t, `
storage:
  database_path: ${TEST_DB_PATH}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/expanded.db", cfg.Storage.DatabasePath)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SMARTBUDGET_DB_PATH", "/tmp/env.db")
	t.Setenv("SMARTBUDGET_MIN_CONFIDENCE", "0.9")

	cfg := LoadFromEnv()
	assert.Equal(t, "/tmp/env.db", cfg.Storage.DatabasePath)
	assert.InDelta(t, 0.9, cfg.Detection.MinConfidence, 1e-9)
	assert.Equal(t, 4, cfg.Detection.MinOccurrences)
}

func TestValidate(t *testing.T) {
	cfg := LoadFromEnv()
	assert.NoError(t, cfg.Validate())

	cfg.Detection.MinConfidence = 1.5
	assert.Error(t, cfg.Validate())

	cfg = LoadFromEnv()
	cfg.Detection.MinOccurrences = 0
	assert.Error(t, cfg.Validate())

	cfg = LoadFromEnv()
	cfg.Storage.DatabasePath = ""
	assert.Error(t, cfg.Validate())
}
