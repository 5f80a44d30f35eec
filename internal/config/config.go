package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Reddit  RedditConfig  `yaml:"reddit" mapstructure:"reddit"`
	Ollama  OllamaConfig  `yaml:"ollama" mapstructure:"ollama"`
	Scan    ScanConfig    `yaml:"scan" mapstructure:"scan"`
	Analyze AnalyzeConfig `yaml:"analyze" mapstructure:"analyze"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// RedditConfig holds content-source API settings. ClientID and ClientSecret
// are normally left empty here and resolved through Credentials.
type RedditConfig struct {
	ClientID          string `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret      string `yaml:"client_secret" mapstructure:"client_secret"`
	SecretFile        string `yaml:"secret_file" mapstructure:"secret_file"`
	UserAgent         string `yaml:"user_agent" mapstructure:"user_agent"`
	RequestsPerMinute int    `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// OllamaConfig holds text-generation service settings.
type OllamaConfig struct {
	URL   string `yaml:"url" mapstructure:"url"`
	Model string `yaml:"model" mapstructure:"model"`
}

// ScanConfig configures the filtering scanner.
type ScanConfig struct {
	MaxScan int `yaml:"max_scan" mapstructure:"max_scan"`

	// MaxConsecutiveOutside stops a hot/rising scan after this many
	// consecutive out-of-range posts. Heuristic, not a guarantee.
	MaxConsecutiveOutside int `yaml:"max_consecutive_outside" mapstructure:"max_consecutive_outside"`
}

// AnalyzeConfig configures batch analysis.
type AnalyzeConfig struct {
	DelaySecs float64 `yaml:"delay_secs" mapstructure:"delay_secs"`
}

// StoreConfig configures dump persistence.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"` // "json" or "sqlite"
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Path   string `yaml:"path" mapstructure:"path"` // sqlite database file
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config file, and environment.
func Load() (*Config, error) {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("THREADLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("reddit.secret_file", "secret.json")
	v.SetDefault("reddit.user_agent", "threadlens/1.0")
	v.SetDefault("reddit.requests_per_minute", 50)
	v.SetDefault("ollama.url", "http://localhost:11434")
	v.SetDefault("ollama.model", "llama3.2:3b")
	v.SetDefault("analyze.delay_secs", 1.0)
	v.SetDefault("scan.max_scan", 1000)
	v.SetDefault("scan.max_consecutive_outside", 100)
	v.SetDefault("store.driver", "json")
	v.SetDefault("store.dir", "data")
	v.SetDefault("store.path", "data/threadlens.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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
