package main

import (
	"log/slog"
	"testing"

	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	t.Setenv("DESCSTORE_ROOT", "/data/benchmarks")

	var cfg Config
	require.NoError(t, envconfig.Process("descstore", &cfg))
	require.NoError(t, ValidateConfig(&cfg))

	assert.Equal(t, "/data/benchmarks", cfg.Root)
	assert.Equal(t, "hpatches", cfg.Variant)
	assert.Equal(t, "zstd", cfg.Compression)
	assert.Equal(t, float64(0), cfg.NaNFill)
	assert.False(t, cfg.NoCache)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestConfigOverrides(t *testing.T) {
	t.Setenv("DESCSTORE_ROOT", "/data")
	t.Setenv("DESCSTORE_VARIANT", "phototourism")
	t.Setenv("DESCSTORE_COMPRESSION", "lz4")
	t.Setenv("DESCSTORE_NAN_FILL", "-1.5")
	t.Setenv("DESCSTORE_NO_CACHE", "true")
	t.Setenv("DESCSTORE_LOG_LEVEL", "debug")
	t.Setenv("DESCSTORE_LOG_FORMAT", "json")

	var cfg Config
	require.NoError(t, envconfig.Process("descstore", &cfg))
	require.NoError(t, ValidateConfig(&cfg))

	assert.Equal(t, "phototourism", cfg.Variant)
	assert.Equal(t, "lz4", cfg.Compression)
	assert.Equal(t, -1.5, cfg.NaNFill)
	assert.True(t, cfg.NoCache)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestValidateConfig(t *testing.T) {
	valid := Config{Root: "/data", LogLevel: "info", LogFormat: "text"}
	require.NoError(t, ValidateConfig(&valid))

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"missing root", func(c *Config) { c.Root = "" }, ErrInvalidRoot},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, ErrInvalidLogFormat},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, ErrInvalidLogLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.ErrorIs(t, ValidateConfig(&cfg), tt.wantErr)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, (&Config{LogLevel: "warn"}).SlogLevel())
	assert.Equal(t, slog.LevelError, (&Config{LogLevel: "error"}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{LogLevel: "info"}).SlogLevel())
}
