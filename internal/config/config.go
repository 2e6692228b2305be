package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/deal-engine/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Screening  ScreeningConfig  `yaml:"screening" mapstructure:"screening"`
	Documents  DocumentsConfig  `yaml:"documents" mapstructure:"documents"`
	Export     ExportConfig     `yaml:"export" mapstructure:"export"`
	Monitoring MonitoringConfig `yaml:"monitoring" mapstructure:"monitoring"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
	CORSOrigins    []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// ScreeningConfig configures the scoring engine.
type ScreeningConfig struct {
	BenchmarkFile    string `yaml:"benchmark_file" mapstructure:"benchmark_file"`
	BatchConcurrency int    `yaml:"batch_concurrency" mapstructure:"batch_concurrency"`
	FallbackSector   string `yaml:"fallback_sector" mapstructure:"fallback_sector"`
}

// DocumentsConfig configures document assembly.
type DocumentsConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns the assembly deadline.
func (d DocumentsConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSecs) * time.Second
}

// ExportConfig configures the format optimizer.
type ExportConfig struct {
	TimeoutSecs   int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	DefaultFormat string `yaml:"default_format" mapstructure:"default_format"`
}

// Timeout returns the render deadline.
func (e ExportConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSecs) * time.Second
}

// MonitoringConfig configures in-process operation metrics and alerting for
// the HTTP API.
type MonitoringConfig struct {
	FailureRateThreshold float64 `yaml:"failure_rate_threshold" mapstructure:"failure_rate_threshold"`
	SlowOperationMs      int     `yaml:"slow_operation_ms" mapstructure:"slow_operation_ms"`
	MinSamples           int     `yaml:"min_samples" mapstructure:"min_samples"`
	CheckIntervalSecs    int     `yaml:"check_interval_secs" mapstructure:"check_interval_secs"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DEAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit_rps", 20)
	v.SetDefault("server.rate_limit_burst", 40)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("screening.benchmark_file", "")
	v.SetDefault("screening.batch_concurrency", 4)
	v.SetDefault("screening.fallback_sector", "Technology")
	v.SetDefault("documents.timeout_secs", 30)
	v.SetDefault("export.timeout_secs", 30)
	v.SetDefault("export.default_format", "pdf")
	v.SetDefault("monitoring.failure_rate_threshold", 0.10)
	v.SetDefault("monitoring.slow_operation_ms", 2000)
	v.SetDefault("monitoring.min_samples", 5)
	v.SetDefault("monitoring.check_interval_secs", 300)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. Mode is the command name.
func (c *Config) Validate(mode string) error {
	var errs []string

	if c.Screening.BatchConcurrency < 1 || c.Screening.BatchConcurrency > 64 {
		errs = append(errs, fmt.Sprintf("screening.batch_concurrency must be between 1 and 64, got %d", c.Screening.BatchConcurrency))
	}
	if c.Documents.TimeoutSecs < 0 {
		errs = append(errs, "documents.timeout_secs must be >= 0")
	}
	if c.Export.TimeoutSecs < 0 {
		errs = append(errs, "export.timeout_secs must be >= 0")
	}
	if c.Export.DefaultFormat != "" {
		if _, err := model.ParseExportFormat(c.Export.DefaultFormat); err != nil {
			errs = append(errs, fmt.Sprintf("export.default_format %q is not supported", c.Export.DefaultFormat))
		}
	}

	switch mode {
	case "score", "document", "export", "templates":
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
		if c.Server.RateLimitRPS <= 0 {
			errs = append(errs, "server.rate_limit_rps must be > 0")
		}
		if c.Server.RateLimitBurst < 1 {
			errs = append(errs, "server.rate_limit_burst must be >= 1")
		}
		if c.Monitoring.FailureRateThreshold < 0 || c.Monitoring.FailureRateThreshold > 1 {
			errs = append(errs, "monitoring.failure_rate_threshold must be between 0 and 1")
		}
		if c.Monitoring.SlowOperationMs < 0 {
			errs = append(errs, "monitoring.slow_operation_ms must be >= 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
