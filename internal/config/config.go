package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the message search service.
// Environment variables are parsed from the MSGSEARCH_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Upstream messages API
	UpstreamURL            string `envconfig:"UPSTREAM_URL" default:"https://november7-730026606190.europe-west1.run.app/messages"`
	UpstreamTimeoutSeconds int    `envconfig:"UPSTREAM_TIMEOUT_SECONDS" default:"10"`

	// Startup cache load
	LoadTimeoutSeconds int  `envconfig:"LOAD_TIMEOUT_SECONDS" default:"60"`
	LoadMaxRetries     int  `envconfig:"LOAD_MAX_RETRIES" default:"3"`
	FailHard           bool `envconfig:"FAIL_HARD" default:"false"`

	// Search pagination bounds
	DefaultPageSize int `envconfig:"DEFAULT_PAGE_SIZE" default:"20"`
	MaxPageSize     int `envconfig:"MAX_PAGE_SIZE" default:"100"`
}

// Validate checks cross-field constraints that envconfig cannot express.
func (c *Config) Validate() error {
	if c.UpstreamURL == "" {
		return fmt.Errorf("UPSTREAM_URL must not be empty")
	}
	if c.MaxPageSize < 1 {
		return fmt.Errorf("MAX_PAGE_SIZE must be >= 1, got %d", c.MaxPageSize)
	}
	if c.DefaultPageSize < 1 || c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be in [1, %d], got %d", c.MaxPageSize, c.DefaultPageSize)
	}
	if c.LoadMaxRetries < 0 {
		return fmt.Errorf("LOAD_MAX_RETRIES must be >= 0, got %d", c.LoadMaxRetries)
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Variables are prefixed with MSGSEARCH_, e.g. MSGSEARCH_HTTP_PORT.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("MSGSEARCH", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("upstream_url", cfg.UpstreamURL).
		Int("load_timeout_seconds", cfg.LoadTimeoutSeconds).
		Int("load_max_retries", cfg.LoadMaxRetries).
		Bool("fail_hard", cfg.FailHard).
		Int("default_page_size", cfg.DefaultPageSize).
		Int("max_page_size", cfg.MaxPageSize).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	return &Config{
		Environment:            EnvTesting,
		HTTPPort:               8080,
		UpstreamURL:            "http://localhost:9095/messages",
		UpstreamTimeoutSeconds: 2,
		LoadTimeoutSeconds:     5,
		LoadMaxRetries:         0,
		FailHard:               true,
		DefaultPageSize:        20,
		MaxPageSize:            100,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// UpstreamTimeout returns the per-request upstream timeout.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutSeconds) * time.Second
}

// LoadTimeout returns the overall budget for the startup cache load.
func (c *Config) LoadTimeout() time.Duration {
	return time.Duration(c.LoadTimeoutSeconds) * time.Second
}
