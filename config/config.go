// Package config loads environment variables and provides a typed Config used across the service.
// Every variable is optional; defaults let the binary run locally and inside a pod without setup.
// Values are read once at startup and never re-read per request.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultVersion        = "1.0.0"
	DefaultEnvironment    = "development"
	DefaultPort           = 5000
	DefaultResolveTimeout = 2 * time.Second
)

// ErrInvalidPort is returned when PORT is not an integer in 0..65535.
var ErrInvalidPort = errors.New("invalid PORT")

type Config struct {
	// Reported by / and /metrics
	Version     string
	Environment string

	// HTTP
	Port        int
	MetricsAddr string // optional Prometheus listener, disabled when empty

	// Pod identity lookups
	ResolveTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads environment variables and applies defaults. It fails only when a variable is
// present but malformed (PORT, POD_RESOLVE_TIMEOUT).
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Version = os.Getenv("APP_VERSION")
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	cfg.Environment = os.Getenv("APP_ENV")
	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}

	cfg.Port = DefaultPort
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 65535 {
			return nil, fmt.Errorf("%w %q: must be an integer between 0 and 65535", ErrInvalidPort, v)
		}
		cfg.Port = n
	}

	cfg.MetricsAddr = strings.TrimSpace(os.Getenv("METRICS_ADDR"))

	cfg.ResolveTimeout = DefaultResolveTimeout
	if v := strings.TrimSpace(os.Getenv("POD_RESOLVE_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid POD_RESOLVE_TIMEOUT (Go duration): %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("invalid POD_RESOLVE_TIMEOUT %q: must be positive", v)
		}
		cfg.ResolveTimeout = d
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" && cfg.Debug() {
		cfg.LogLevel = "debug"
	}
	cfg.LogFormat = strings.ToLower(os.Getenv("LOG_FORMAT"))

	return cfg, nil
}

// Debug reports whether verbose diagnostics are enabled. Only the exact value "development" enables them.
func (c *Config) Debug() bool {
	return c.Environment == "development"
}

// ListenAddr is the main server address, bound on all interfaces.
func (c *Config) ListenAddr() string {
	return "0.0.0.0:" + strconv.Itoa(c.Port)
}
