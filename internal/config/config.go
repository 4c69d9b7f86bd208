// Package config loads txmirror settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"txmirror/internal/domain"
)

// Environment variables.
const (
	EnvConfigFile  = "TXMIRROR_CONFIG"
	EnvProcess     = "TXMIRROR_PROCESS"
	EnvLogLevel    = "TXMIRROR_LOG_LEVEL"
	EnvLogFormat   = "TXMIRROR_LOG_FORMAT"
	EnvMetricsAddr = "TXMIRROR_METRICS_ADDR"
)

// Config holds the CLI settings.
type Config struct {
	// Process is the alias used for transactions recorded without one.
	Process domain.ProcessAlias `yaml:"process"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// LogFormat is text or json.
	LogFormat string `yaml:"log_format"`
	// MetricsAddr enables a Prometheus /metrics listener when set.
	MetricsAddr string `yaml:"metrics_addr"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Process:   "default-purchase/release-1",
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// Load reads the file named by TXMIRROR_CONFIG, if any, then applies the
// environment and validates the result.
func Load(getenv func(string) string) (Config, error) {
	cfg := Default()

	if path := getenv(EnvConfigFile); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := Parse(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	if v := getenv(EnvProcess); v != "" {
		cfg.Process = domain.ProcessAlias(v)
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
	}
	if v := getenv(EnvMetricsAddr); v != "" {
		cfg.MetricsAddr = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, keeping values the document does not set.
// Unknown keys are rejected.
func Parse(b []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if c.Process == "" {
		return domain.NewValidationError("process", "must not be empty")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return domain.NewValidationError("log_format", "must be text or json")
	}
	return nil
}

// Level returns the slog level for LogLevel.
func (c Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, domain.NewValidationError("log_level", "must be one of debug, info, warn, error")
}
