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
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Priors    PriorsConfig    `yaml:"priors" mapstructure:"priors"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings. ClassifyModel serves the
// cheap advisory call; GenerateModel serves the primary structured call.
type AnthropicConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	ClassifyModel string `yaml:"classify_model" mapstructure:"classify_model"`
	GenerateModel string `yaml:"generate_model" mapstructure:"generate_model"`
}

// PriorsConfig configures the read-only prior-analysis store.
type PriorsConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "sqlite", "postgres", or "none"
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// PipelineConfig configures per-stage behavior.
type PipelineConfig struct {
	ClassifyTimeoutSecs  int  `yaml:"classify_timeout_secs" mapstructure:"classify_timeout_secs"`
	GenerateTimeoutSecs  int  `yaml:"generate_timeout_secs" mapstructure:"generate_timeout_secs"`
	ClassifyEvidenceCap  int  `yaml:"classify_evidence_cap" mapstructure:"classify_evidence_cap"`
	GenerateEvidenceCap  int  `yaml:"generate_evidence_cap" mapstructure:"generate_evidence_cap"`
	RequireAuthOnVerdict bool `yaml:"require_auth_on_verdict" mapstructure:"require_auth_on_verdict"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	APITokens   []string `yaml:"api_tokens" mapstructure:"api_tokens"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
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
	v.SetEnvPrefix("DEALPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("anthropic.classify_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.generate_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("priors.driver", "none")
	v.SetDefault("pipeline.classify_timeout_secs", 10)
	v.SetDefault("pipeline.generate_timeout_secs", 45)
	v.SetDefault("pipeline.classify_evidence_cap", 4)
	v.SetDefault("pipeline.generate_evidence_cap", 6)
	v.SetDefault("pipeline.require_auth_on_verdict", true)

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

// Validate checks startup-fatal settings. The Anthropic key must be resolved
// at startup; business logic never reads ambient environment state.
func (c *Config) Validate() error {
	if c.Anthropic.Key == "" {
		return eris.New("config: anthropic.key is required")
	}
	if c.Priors.Driver != "none" && c.Priors.Driver != "sqlite" && c.Priors.Driver != "postgres" {
		return eris.Errorf("config: unknown priors driver %q", c.Priors.Driver)
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
