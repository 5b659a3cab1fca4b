// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config filled with defaults.
// - Load layers defaults, an optional YAML file and RECRUTA_* environment variables.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format" validate:"omitempty,oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// ExportQueueSize bounds the in-memory export queue.
	ExportQueueSize int `koanf:"queue_size" validate:"gte=1"`

	// WorkerCount sets the number of export workers. Each worker owns at most
	// one render surface at a time.
	WorkerCount int `koanf:"worker_count" validate:"gte=1"`

	// InflightSize caps the number of tracked in-flight export keys.
	InflightSize int `koanf:"inflight_size" validate:"gte=0"`

	// Store selects the application store backend.
	Store StoreConfig `koanf:"store"`

	// Render configures page geometry and the headless renderer.
	Render RenderConfig `koanf:"render"`
}

// StoreConfig selects and configures the relational store adapter.
type StoreConfig struct {
	// Driver is "sqlite" (local) or "postgres" (hosted database).
	Driver string `koanf:"driver" validate:"oneof=sqlite postgres"`

	// DatabaseURL is the postgres connection string.
	DatabaseURL string `koanf:"database_url" validate:"required_if=Driver postgres"`

	// SQLitePath is the local database file.
	SQLitePath string `koanf:"sqlite_path" validate:"required_if=Driver sqlite"`
}

// RenderConfig holds page geometry in raster units and renderer settings.
type RenderConfig struct {
	PageWidth    float64 `koanf:"page_width" validate:"gt=0"`
	PageHeight   float64 `koanf:"page_height" validate:"gt=0"`
	TopMargin    float64 `koanf:"top_margin" validate:"gte=0"`
	FooterHeight float64 `koanf:"footer_height" validate:"gte=0"`

	// DeviceScale is the raster pixel density multiplier.
	DeviceScale float64 `koanf:"device_scale" validate:"gt=0,lte=4"`

	// Measurer is "chrome" (real layout) or "estimate" (deterministic, headless).
	Measurer string `koanf:"measurer" validate:"oneof=chrome estimate"`

	// ChromePath overrides the browser executable; empty uses the default lookup.
	ChromePath string `koanf:"chrome_path"`

	// TimeoutSeconds is an operator guard for a single export; 0 disables it.
	TimeoutSeconds int `koanf:"timeout_seconds" validate:"gte=0"`

	// Brand is printed in the running header of every page.
	Brand string `koanf:"brand"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		ExportQueueSize: 256,
		WorkerCount:     runtime.NumCPU(),
		InflightSize:    10_000,
		Store: StoreConfig{
			Driver:     "sqlite",
			SQLitePath: "recrutamente.db",
		},
		Render: RenderConfig{
			PageWidth:    794,
			PageHeight:   1123,
			TopMargin:    56,
			FooterHeight: 40,
			DeviceScale:  2,
			Measurer:     "chrome",
			Brand:        "RecrutaMente",
		},
	}
}
