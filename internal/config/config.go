// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading layers defaults, an optional YAML file, env vars, and CLI flags.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir points at the directory containing the dataset CSV files.
	DataDir string `koanf:"data_dir"`

	// WatchData enables the filesystem watcher that invalidates cached
	// datasets when their files change on disk.
	WatchData bool `koanf:"watch_data"`

	// PreloadWorkers sets the number of workers warming the dataset cache
	// at startup. Zero disables preloading.
	PreloadWorkers int `koanf:"preload_workers"`

	// MaxTableLimit caps GET /api/tables/{name}?limit.
	MaxTableLimit int `koanf:"max_table_limit"`

	// SessionTTLSeconds bounds how long a saved filter session lives
	// without being touched.
	SessionTTLSeconds int `koanf:"session_ttl_seconds"`

	// ReferenceDate anchors athlete age derivation, format YYYY-MM-DD.
	ReferenceDate string `koanf:"reference_date"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:          "info",
		Addr:              ":9090",
		DataDir:           "data",
		WatchData:         true,
		PreloadWorkers:    runtime.NumCPU(),
		MaxTableLimit:     1000,
		SessionTTLSeconds: 3600,
		ReferenceDate:     "2024-07-26",
	}
	return c
}
