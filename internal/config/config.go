// Package config defines service configuration and how it is loaded.
//
// Conventions:
// - New returns a Config holding every default.
// - Load layers defaults, an optional YAML file and CARESHARE_* env vars.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"slices"
	"time"
)

// Ledger backends.
const (
	LedgerMemory = "memory"
	LedgerRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// DemoMode enables the reset and scenario endpoints.
	DemoMode bool `koanf:"demo_mode"`

	// AllowedOrigins lists CORS origins for the browser client.
	AllowedOrigins []string `koanf:"allowed_origins"`

	// FrontendURL is appended to AllowedOrigins when set.
	FrontendURL string `koanf:"frontend_url"`

	// LedgerBackend selects where credits are kept: memory or redis.
	LedgerBackend string `koanf:"ledger_backend"`

	// RedisURL is required for the redis backend, e.g. redis://localhost:6379/0.
	RedisURL string `koanf:"redis_url"`

	// RedisPrefix namespaces ledger keys.
	RedisPrefix string `koanf:"redis_prefix"`

	// SeedFile optionally replaces the built-in demo dataset.
	SeedFile string `koanf:"seed_file"`

	// RecentEventsLimit caps the events on the credits dashboard.
	RecentEventsLimit int `koanf:"recent_events_limit"`

	// BenchmarkClinicWindow and BenchmarkNetworkWindow bound how many recent
	// records per clinic feed the distributions.
	BenchmarkClinicWindow  int `koanf:"benchmark_clinic_window"`
	BenchmarkNetworkWindow int `koanf:"benchmark_network_window"`

	// ShutdownTimeoutMS bounds graceful shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":8000",
		AllowedOrigins:         []string{"http://localhost:5173", "http://localhost:5174"},
		LedgerBackend:          LedgerMemory,
		RedisPrefix:            "careshare:{credits}",
		RecentEventsLimit:      5,
		BenchmarkClinicWindow:  100,
		BenchmarkNetworkWindow: 500,
		ShutdownTimeoutMS:      30_000,
	}
}

// Origins returns the CORS origins including FrontendURL, without duplicates.
func (c *Config) Origins() []string {
	out := make([]string, 0, len(c.AllowedOrigins)+1)
	for _, o := range append(slices.Clone(c.AllowedOrigins), c.FrontendURL) {
		if o != "" && !slices.Contains(out, o) {
			out = append(out, o)
		}
	}
	return out
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

// Validate checks field values and cross-field requirements.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format %q must be text or json", ErrInvalidConfig, c.LogFormat)
	case c.LedgerBackend != LedgerMemory && c.LedgerBackend != LedgerRedis:
		return fmt.Errorf("%w: ledger_backend %q must be memory or redis", ErrInvalidConfig, c.LedgerBackend)
	case c.LedgerBackend == LedgerRedis && c.RedisURL == "":
		return fmt.Errorf("%w: redis_url is required for the redis ledger", ErrInvalidConfig)
	case c.RecentEventsLimit <= 0:
		return fmt.Errorf("%w: recent_events_limit must be positive", ErrInvalidConfig)
	case c.BenchmarkClinicWindow <= 0 || c.BenchmarkNetworkWindow <= 0:
		return fmt.Errorf("%w: benchmark windows must be positive", ErrInvalidConfig)
	case c.ShutdownTimeoutMS <= 0:
		return fmt.Errorf("%w: shutdown_timeout_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
