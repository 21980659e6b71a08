// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load() layers defaults, optional YAML file, and env vars.
// - External errors are wrapped via this package's sentinel kinds.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LeagueBasePoints is what first place earns per league competition;
	// subsequent places decrement by one, floored at zero.
	LeagueBasePoints int `koanf:"league_base_points"`

	// MaxResultsBatch caps the number of entries one ingest request may
	// carry.
	MaxResultsBatch int `koanf:"max_results_batch"`

	// CacheMaxAgeSeconds sets the Cache-Control max-age on read endpoints.
	// Zero disables the header.
	CacheMaxAgeSeconds int `koanf:"cache_max_age_seconds"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8080",
		LeagueBasePoints:   20,
		MaxResultsBatch:    200,
		CacheMaxAgeSeconds: 300,
	}
}
