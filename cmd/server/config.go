package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidPort           = errors.New("server.port must be between 1 and 65535")
	ErrInvalidReadTimeout    = errors.New("server.read_timeout_sec must be positive")
	ErrInvalidWriteTimeout   = errors.New("server.write_timeout_sec must be positive")
	ErrInvalidMaxRequestSize = errors.New("server.max_request_size must be positive")
	ErrInvalidConcurrency    = errors.New("server.concurrency must be non-negative")
)

// Config represents the complete server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Cleaner CleanerConfig `yaml:"cleaner"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig contains HTTP server settings. Timeouts are in seconds.
type ServerConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	MaxRequestSize  int `yaml:"max_request_size"`
	Concurrency     int `yaml:"concurrency"`
}

// ReadTimeout returns the read timeout as a duration.
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSec) * time.Second
}

// WriteTimeout returns the write timeout as a duration.
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSec) * time.Second
}

// CleanerConfig contains cleaner defaults applied when a request leaves the
// toggles unset.
type CleanerConfig struct {
	KeepEmoji      *bool `yaml:"keep_emoji"`
	CollapseSpaces *bool `yaml:"collapse_spaces"`
	WarmUp         bool  `yaml:"warm_up"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	File string `yaml:"file"`
	JSON bool   `yaml:"json"`
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeoutSec:  30,
			WriteTimeoutSec: 30,
			MaxRequestSize:  10 * 1024 * 1024, // 10MB
			Concurrency:     0,                // 0 means use GOMAXPROCS
		},
		Cleaner: CleanerConfig{
			WarmUp: true,
		},
		Logging: LoggingConfig{
			JSON: true,
		},
	}
}

// Load reads configuration from a YAML file, layered over the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate checks the configuration for obvious mistakes.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return ErrInvalidPort
	}
	if c.Server.ReadTimeoutSec <= 0 {
		return ErrInvalidReadTimeout
	}
	if c.Server.WriteTimeoutSec <= 0 {
		return ErrInvalidWriteTimeout
	}
	if c.Server.MaxRequestSize <= 0 {
		return ErrInvalidMaxRequestSize
	}
	if c.Server.Concurrency < 0 {
		return ErrInvalidConcurrency
	}
	return nil
}
