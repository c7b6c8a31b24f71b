// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Compile CompileConfig `yaml:"compile"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig configures the preview HTTP server.
type ServerConfig struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout stays 0 by default: the event stream holds
	// connections open indefinitely.
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// CompileConfig configures the compile pipeline.
type CompileConfig struct {
	// IDPrefix prefixes generated element identifiers.
	IDPrefix string `yaml:"id_prefix"`

	// StrictTriggers makes an unresolvable trigger target a build
	// failure instead of a placeholder substitution.
	StrictTriggers bool `yaml:"strict_triggers"`

	// Static emits documents without animation directives.
	Static bool `yaml:"static"`

	// Debounce is how long the watcher waits after the last file event
	// before recompiling.
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // Enable the metrics endpoint
	Path    string `yaml:"path"`    // Custom path (default: /metrics)
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// FromEnv creates configuration from environment variables and
// defaults alone. Every setting has a working default, so this never
// requires any variable to be set.
//
// Environment variables:
//
//	RUDO_SERVER_HOST             - Preview server host (default: 127.0.0.1)
//	RUDO_SERVER_PORT             - Preview server port (default: 7878)
//	RUDO_SERVER_READ_TIMEOUT     - Read timeout (default: 10s)
//	RUDO_SERVER_WRITE_TIMEOUT    - Write timeout (default: 0, required for event streams)
//	RUDO_COMPILE_ID_PREFIX       - Generated id prefix (default: el-)
//	RUDO_COMPILE_STRICT_TRIGGERS - Fail builds on unresolved triggers (default: false)
//	RUDO_COMPILE_STATIC          - Emit static documents (default: false)
//	RUDO_COMPILE_DEBOUNCE        - Watcher debounce interval (default: 150ms)
//	RUDO_LOG_LEVEL               - Log level: debug, info, warn, error (default: info)
//	RUDO_LOG_FORMAT              - Log format: json or console (default: console)
//	RUDO_METRICS_ENABLED         - Enable the metrics endpoint (default: false)
//	RUDO_METRICS_PATH            - Metrics endpoint path (default: /metrics)
func FromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback loads from the file when it exists, otherwise from
// environment variables and defaults.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return FromEnv()
}

// applyEnvOverrides applies RUDO_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RUDO_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("RUDO_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("RUDO_SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("RUDO_SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	if v := os.Getenv("RUDO_COMPILE_ID_PREFIX"); v != "" {
		cfg.Compile.IDPrefix = v
	}
	if v := os.Getenv("RUDO_COMPILE_STRICT_TRIGGERS"); v != "" {
		cfg.Compile.StrictTriggers = parseBool(v)
	}
	if v := os.Getenv("RUDO_COMPILE_STATIC"); v != "" {
		cfg.Compile.Static = parseBool(v)
	}
	if v := os.Getenv("RUDO_COMPILE_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Compile.Debounce = d
		}
	}

	if v := os.Getenv("RUDO_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RUDO_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	if v := os.Getenv("RUDO_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("RUDO_METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 7878
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}

	if cfg.Compile.IDPrefix == "" {
		cfg.Compile.IDPrefix = "el-"
	}
	if cfg.Compile.Debounce == 0 {
		cfg.Compile.Debounce = 150 * time.Millisecond
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", cfg.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error, got %q", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	// Generated ids land in id attributes, which must not start with a
	// digit.
	first := cfg.Compile.IDPrefix[0]
	if first >= '0' && first <= '9' {
		return fmt.Errorf("compile.id_prefix must not start with a digit, got %q", cfg.Compile.IDPrefix)
	}

	if cfg.Compile.Debounce < 0 {
		return fmt.Errorf("compile.debounce must not be negative, got %s", cfg.Compile.Debounce)
	}

	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got %q", cfg.Metrics.Path)
	}

	return nil
}
