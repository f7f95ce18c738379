package main

import (
	"errors"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config validation errors
var (
	ErrInvalidRoot      = errors.New("root cannot be empty")
	ErrInvalidLogFormat = errors.New("log_format must be 'json' or 'text'")
	ErrInvalidLogLevel  = errors.New("log_level must be debug, info, warn, or error")
)

// Config is the environment-driven configuration of the descstore tool.
// Every field maps to a DESCSTORE_* variable; a .env file in the working
// directory is honored if present.
type Config struct {
	Root        string  `envconfig:"ROOT"`
	MetaRoot    string  `envconfig:"META_ROOT"`
	CacheDir    string  `envconfig:"CACHE_DIR"`
	Variant     string  `envconfig:"VARIANT" default:"hpatches"`
	Compression string  `envconfig:"COMPRESSION" default:"zstd"`
	NaNFill     float64 `envconfig:"NAN_FILL" default:"0"`
	NoCache     bool    `envconfig:"NO_CACHE" default:"false"`
	LogLevel    string  `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string  `envconfig:"LOG_FORMAT" default:"text"`
}

// LoadConfig reads the optional .env file and the DESCSTORE_* environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // best-effort; absence is fine

	var cfg Config
	if err := envconfig.Process("descstore", &cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateConfig validates the configuration and returns an error if invalid.
func ValidateConfig(cfg *Config) error {
	if cfg.Root == "" {
		return ErrInvalidRoot
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return ErrInvalidLogFormat
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	return nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
