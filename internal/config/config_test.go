package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.InDelta(t, 20, cfg.Server.RateLimitRPS, 0.001)
	assert.Equal(t, 40, cfg.Server.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Empty(t, cfg.Screening.BenchmarkFile)
	assert.Equal(t, 4, cfg.Screening.BatchConcurrency)
	assert.Equal(t, "Technology", cfg.Screening.FallbackSector)
	assert.Equal(t, 30*time.Second, cfg.Documents.Timeout())
	assert.Equal(t, 30*time.Second, cfg.Export.Timeout())
	assert.Equal(t, "pdf", cfg.Export.DefaultFormat)
	assert.InDelta(t, 0.10, cfg.Monitoring.FailureRateThreshold, 1e-9)
	assert.Equal(t, 2000, cfg.Monitoring.SlowOperationMs)
	assert.Equal(t, 5, cfg.Monitoring.MinSamples)
	assert.Equal(t, 300, cfg.Monitoring.CheckIntervalSecs)

	assert.NoError(t, cfg.Validate("serve"))
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
  format: console
server:
  port: 9090
screening:
  batch_concurrency: 8
  benchmark_file: benchmarks.yaml
export:
  default_format: html
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Screening.BatchConcurrency)
	assert.Equal(t, "benchmarks.yaml", cfg.Screening.BenchmarkFile)
	assert.Equal(t, "html", cfg.Export.DefaultFormat)
	// Defaults still apply for unset values
	assert.Equal(t, 30, cfg.Documents.TimeoutSecs)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
screening:
  batch_concurrency: 8
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("DEAL_LOG_LEVEL", "warn")
	t.Setenv("DEAL_SCREENING_BATCH_CONCURRENCY", "2")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 2, cfg.Screening.BatchConcurrency)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DEAL_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Server.RateLimitRPS = 20
	cfg.Server.RateLimitBurst = 40
	cfg.Screening.BatchConcurrency = 4
	cfg.Documents.TimeoutSecs = 30
	cfg.Export.TimeoutSecs = 30
	cfg.Export.DefaultFormat = "pdf"
	return cfg
}

func TestValidateCommandModes(t *testing.T) {
	for _, mode := range []string{"score", "document", "export", "templates", "serve"} {
		assert.NoError(t, validDefaults().Validate(mode), mode)
	}
}

func TestValidateUnknownMode(t *testing.T) {
	err := validDefaults().Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateServe(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port must be > 0"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port must be > 0"},
		{"rps", func(c *Config) { c.Server.RateLimitRPS = 0 }, "server.rate_limit_rps must be > 0"},
		{"burst", func(c *Config) { c.Server.RateLimitBurst = 0 }, "server.rate_limit_burst must be >= 1"},
		{"failure rate", func(c *Config) { c.Monitoring.FailureRateThreshold = 1.5 }, "monitoring.failure_rate_threshold must be between 0 and 1"},
		{"slow ms", func(c *Config) { c.Monitoring.SlowOperationMs = -1 }, "monitoring.slow_operation_ms must be >= 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)

			err := cfg.Validate("serve")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)

			// Server settings only matter when serving.
			assert.NoError(t, cfg.Validate("score"))
		})
	}
}

func TestValidateConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Screening.BatchConcurrency = 0
	err := cfg.Validate("score")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "batch_concurrency must be between 1 and 64")

	cfg.Screening.BatchConcurrency = 65
	assert.Error(t, cfg.Validate("score"))

	cfg.Screening.BatchConcurrency = 64
	assert.NoError(t, cfg.Validate("score"))
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validDefaults()
	cfg.Documents.TimeoutSecs = -1
	cfg.Export.TimeoutSecs = -1
	cfg.Export.DefaultFormat = "xml"

	err := cfg.Validate("export")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "documents.timeout_secs must be >= 0")
	assert.Contains(t, err.Error(), "export.timeout_secs must be >= 0")
	assert.Contains(t, err.Error(), `export.default_format "xml" is not supported`)
}
