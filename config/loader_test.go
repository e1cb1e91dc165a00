package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "memory", cfg.Telemetry.Store)
	assert.Equal(t, 64, cfg.Skills.DefaultWidth)
	assert.Equal(t, 0.82, cfg.Decision.Gates["hc_gait_guard"])
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skillrt.yaml")
	doc := `
skills:
  definition_path: /data/skills.yaml
  default_width: 32
telemetry:
  store: sqlite
  path: /data/telemetry.db
  default_rate: 0.5
  rates:
    router: 0.2
decision:
  gates:
    hc_fall_watch: 0.95
tracing:
  enabled: true
  otlp_endpoint: collector:4317
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "/data/skills.yaml", cfg.Skills.DefinitionPath)
	assert.Equal(t, 32, cfg.Skills.DefaultWidth)
	assert.Equal(t, "sqlite", cfg.Telemetry.Store)
	assert.Equal(t, 0.5, cfg.Telemetry.DefaultRate)
	assert.Equal(t, 0.2, cfg.Telemetry.Rates["router"])
	assert.Equal(t, 0.95, cfg.Decision.Gates["hc_fall_watch"])
	assert.True(t, cfg.Tracing.Enabled)

	// 未出现在文件中的项保留默认值
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := NewLoader().WithConfigPath("/nonexistent/skillrt.yaml").Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Telemetry, cfg.Telemetry)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SKILLRT_TELEMETRY_STORE", "file")
	t.Setenv("SKILLRT_TELEMETRY_PATH", "/tmp/events.jsonl")
	t.Setenv("SKILLRT_SKILLS_DEFAULT_WIDTH", "128")
	t.Setenv("SKILLRT_TRACING_ENABLED", "true")
	t.Setenv("SKILLRT_LOG_OUTPUT_PATHS", "stdout, /var/log/skillrt.log")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Telemetry.Store)
	assert.Equal(t, "/tmp/events.jsonl", cfg.Telemetry.Path)
	assert.Equal(t, 128, cfg.Skills.DefaultWidth)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, []string{"stdout", "/var/log/skillrt.log"}, cfg.Log.OutputPaths)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Telemetry.Store = "redis"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Telemetry.Store = "file"
	cfg.Telemetry.Path = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Telemetry.Rates["router"] = 1.5
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Skills.DefaultWidth = 0
	assert.Error(t, cfg.Validate())
}

func TestLoaderValidatorRuns(t *testing.T) {
	_, err := NewLoader().
		WithValidator(func(c *Config) error { return c.Validate() }).
		Load()
	require.NoError(t, err)
}
