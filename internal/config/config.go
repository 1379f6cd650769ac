package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultParallel is the default number of scripts run concurrently.
	DefaultParallel = 4

	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "HOSPITAL_LINKS"
)

// Config holds all configuration for hospital-links.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Events   EventsConfig   `mapstructure:"events"`
	Scenario ScenarioConfig `mapstructure:"scenario"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EventsConfig selects the observers attached to every store.
type EventsConfig struct {
	// Log writes every store operation to the logger.
	Log bool `mapstructure:"log"`
	// Metrics feeds the expvar counters.
	Metrics bool `mapstructure:"metrics"`
	// Prometheus counts operations in a Prometheus registry.
	Prometheus bool `mapstructure:"prometheus"`
}

// ScenarioConfig holds scenario runner settings.
type ScenarioConfig struct {
	Dir      string `mapstructure:"dir"`
	FailFast bool   `mapstructure:"fail_fast"`
	Parallel int    `mapstructure:"parallel"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("events.log", true)
	v.SetDefault("events.metrics", true)
	v.SetDefault("events.prometheus", false)

	v.SetDefault("scenario.dir", ".")
	v.SetDefault("scenario.fail_fast", false)
	v.SetDefault("scenario.parallel", DefaultParallel)

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(homeDir(), ".hospital-links"))
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Map specific env vars
	_ = v.BindEnv("logging.level", "HOSPITAL_LINKS_LOG_LEVEL")
	_ = v.BindEnv("logging.format", "HOSPITAL_LINKS_LOG_FORMAT")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are set and consistent.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json (got %q)", c.Logging.Format)
	}
	if c.Scenario.Dir == "" {
		return fmt.Errorf("scenario.dir must not be empty")
	}
	if c.Scenario.Parallel <= 0 {
		return fmt.Errorf("scenario.parallel must be greater than 0")
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
