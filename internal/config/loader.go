package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if LEETBOARD_CONFIG is set
//  3. env (prefix LEETBOARD_)
func Load(_ context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("LEETBOARD_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: LEETBOARD_ADDR, LEETBOARD_POSTGRES_URL, ...
	// Map env keys like LEETBOARD_FETCH_TIMEOUT_MS -> fetch_timeout_ms
	// (flat keys); underscores match the koanf tags on the struct.
	envProvider := env.Provider("LEETBOARD_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "leetboard_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.FetchTimeoutMS <= 0 {
		return fmt.Errorf("%w: fetch_timeout_ms must be positive", ErrInvalidConfig)
	}
	if cfg.RefreshIntervalSec <= 0 {
		return fmt.Errorf("%w: refresh_interval_sec must be positive", ErrInvalidConfig)
	}
	if cfg.RefreshWorkers <= 0 {
		return fmt.Errorf("%w: refresh_workers must be positive", ErrInvalidConfig)
	}
	if cfg.MaxImprovementLimit <= 0 {
		return fmt.Errorf("%w: max_improvement_limit must be positive", ErrInvalidConfig)
	}
	return nil
}
