// Package config loads application configuration from file and environment
// and owns global logger setup.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Google    GoogleConfig    `yaml:"google" mapstructure:"google"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Scrape    ScrapeConfig    `yaml:"scrape" mapstructure:"scrape"`
	Dedup     DedupConfig     `yaml:"dedup" mapstructure:"dedup"`
	Classify  ClassifyConfig  `yaml:"classify" mapstructure:"classify"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// GoogleConfig holds Google Places API settings.
type GoogleConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ScrapeConfig configures the listing scrape phase.
type ScrapeConfig struct {
	MaxPages          int     `yaml:"max_pages" mapstructure:"max_pages"`
	Concurrency       int     `yaml:"concurrency" mapstructure:"concurrency"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// DedupConfig configures duplicate suppression.
type DedupConfig struct {
	SimilarityThreshold int `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
}

// ClassifyConfig configures the batched enrichment phase.
type ClassifyConfig struct {
	BatchSize  int `yaml:"batch_size" mapstructure:"batch_size"`
	DelaySecs  int `yaml:"delay_secs" mapstructure:"delay_secs"`
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`
}

// PipelineConfig configures run orchestration.
type PipelineConfig struct {
	OutputDir    string `yaml:"output_dir" mapstructure:"output_dir"`
	MinimumScore int    `yaml:"minimum_score" mapstructure:"minimum_score"`
}

// StoreConfig configures the run-history database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROSPECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("google.base_url", "https://places.googleapis.com/v1")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("scrape.max_pages", 3)
	v.SetDefault("scrape.concurrency", 1)
	v.SetDefault("scrape.requests_per_second", 1)
	v.SetDefault("dedup.similarity_threshold", 85)
	v.SetDefault("classify.batch_size", 10)
	v.SetDefault("classify.delay_secs", 10)
	v.SetDefault("classify.max_retries", 3)
	v.SetDefault("pipeline.output_dir", "output")
	v.SetDefault("pipeline.minimum_score", 7)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "prospects.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks that the fields required for a given mode are present and
// sane. Modes: "scrape", "classify", "run", "serve".
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.Dedup.SimilarityThreshold < 0 || c.Dedup.SimilarityThreshold > 100 {
		problems = append(problems, "dedup.similarity_threshold must be between 0 and 100")
	}
	if c.Classify.BatchSize < 1 || c.Classify.BatchSize > 100 {
		problems = append(problems, "classify.batch_size must be between 1 and 100")
	}

	switch mode {
	case "scrape":
		if c.Google.Key == "" {
			problems = append(problems, "google.key is required")
		}
	case "classify":
		if c.Anthropic.Key == "" {
			problems = append(problems, "anthropic.key is required")
		}
	case "run":
		if c.Google.Key == "" {
			problems = append(problems, "google.key is required")
		}
		if c.Anthropic.Key == "" {
			problems = append(problems, "anthropic.key is required")
		}
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required for the postgres driver")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
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
