// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Load layers defaults, an optional YAML file, and environment variables.
// - External errors are wrapped via this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// FeedWindow is the number of events a feed read returns.
	FeedWindow int `koanf:"feed_window"`

	// FeedRetention caps the number of events kept in memory.
	FeedRetention int `koanf:"feed_retention"`

	// SendBuffer is the per-viewer outbound frame queue length.
	SendBuffer int `koanf:"send_buffer"`

	// AuthSecret verifies editor/admin bearer tokens. Must be set in
	// production; the default only suits local development.
	AuthSecret string `koanf:"auth_secret"`

	// SeedDemo loads sample commentary at startup for demos.
	SeedDemo bool `koanf:"seed_demo"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		Addr:          ":9080",
		FeedWindow:    20,
		FeedRetention: 1000,
		SendBuffer:    16,
		AuthSecret:    "dev-secret-change-me",
		SeedDemo:      false,
	}
}
