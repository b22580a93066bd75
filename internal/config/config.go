// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers file and env overrides on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"github.com/okian/leetboard/internal/domain/leetcode"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// PostgresURL is the connection string for the durable store. When
	// empty the service runs on the in-memory store.
	PostgresURL string `koanf:"postgres_url"`

	// LeetCodeURL points at the GraphQL endpoint scores are fetched from.
	LeetCodeURL string `koanf:"leetcode_url"`

	// FetchTimeoutMS bounds each external score lookup.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// RefreshIntervalSec is the period of the background refresh loop.
	RefreshIntervalSec int `koanf:"refresh_interval_sec"`

	// RefreshWorkers sets how many lookups a refresh pass runs concurrently.
	RefreshWorkers int `koanf:"refresh_workers"`

	// SerializeRefresh makes overlapping refresh triggers coalesce instead
	// of running side by side.
	SerializeRefresh bool `koanf:"serialize_refresh"`

	// MaxImprovementLimit caps GET /weekly-improvements?limit.
	MaxImprovementLimit int `koanf:"max_improvement_limit"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":8080",
		PostgresURL:         "",
		LeetCodeURL:         leetcode.DefaultURL,
		FetchTimeoutMS:      10_000,
		RefreshIntervalSec:  300,
		RefreshWorkers:      4,
		SerializeRefresh:    false,
		MaxImprovementLimit: 50,
	}
}
