// Package config defines process configuration and its loading.
//
// Values are layered: defaults from New, then an optional YAML file,
// then IVTRACK_* environment variables.
package config

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Store engines.
const (
	EngineMemory = "memory"
	EngineJSON   = "json"
	EngineSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// StoreEngine selects where timelines live: memory, json or sqlite.
	// memory lasts for one process only, so it suits tests and one-shot
	// commands such as simulate, not the CLI's record-then-show workflow.
	StoreEngine string `koanf:"store_engine" validate:"oneof=memory json sqlite"`

	// DataFile is the JSON file or SQLite database path.
	DataFile string `koanf:"data_file" validate:"required_unless=StoreEngine memory"`

	// GameMasterFile optionally replaces the built-in species and level tables.
	GameMasterFile string `koanf:"game_master_file"`

	// MetricsFile, when set, receives a Prometheus textfile after each command.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:    "info",
		LogFormat:   "text",
		StoreEngine: EngineSQLite,
		DataFile:    "ivtrack.db",
	}
}

// Validate reports the first invalid field wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
