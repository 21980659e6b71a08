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
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if REGATA_CONFIG is set
//  3. env (prefix REGATA_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("REGATA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: REGATA_ADDR, REGATA_LEAGUE_BASE_POINTS, ...
	// Keys map flat with underscores preserved to match the koanf tags.
	envProvider := env.Provider("REGATA_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "regata_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.LeagueBasePoints <= 0:
		return nil, fmt.Errorf("%w: league_base_points must be positive", ErrInvalidConfig)
	case cfg.MaxResultsBatch <= 0:
		return nil, fmt.Errorf("%w: max_results_batch must be positive", ErrInvalidConfig)
	case cfg.CacheMaxAgeSeconds < 0:
		return nil, fmt.Errorf("%w: cache_max_age_seconds must not be negative", ErrInvalidConfig)
	}
	return &cfg, nil
}
