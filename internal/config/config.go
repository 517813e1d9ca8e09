// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

// Package config loads layered server configuration: struct defaults, then an
// optional YAML file, then environment variables.
package config

import "time"

// Store backends.
const (
	BackendDuckDB   = "duckdb"
	BackendSQLite   = "sqlite"
	BackendSupabase = "supabase"
)

// Config is the complete server configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Store    StoreConfig    `koanf:"store"`
	Database DatabaseConfig `koanf:"database"`
	Supabase SupabaseConfig `koanf:"supabase"`
	Breaker  BreakerConfig  `koanf:"breaker"`
	Ingest   IngestConfig   `koanf:"ingest"`
	Manifest ManifestConfig `koanf:"manifest"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StoreConfig selects the reaction store backend.
type StoreConfig struct {
	Backend string `koanf:"backend"` // duckdb, sqlite or supabase
}

// DatabaseConfig configures the embedded SQL backends (duckdb and sqlite).
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"` // DuckDB only
	Threads   int    `koanf:"threads"`    // DuckDB only, 0 = NumCPU

	// CheckpointInterval is how often the WAL is folded into the main file.
	CheckpointInterval time.Duration `koanf:"checkpoint_interval"`
}

// SupabaseConfig configures the hosted PostgREST backend.
type SupabaseConfig struct {
	URL            string `koanf:"url"`
	ServiceRoleKey string `koanf:"service_role_key"`
	Schema         string `koanf:"schema"`
}

// BreakerConfig tunes the circuit breaker wrapped around the store.
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	MaxRequests      uint32        `koanf:"max_requests"` // probes allowed while half-open
	Interval         time.Duration `koanf:"interval"`     // closed-state counter reset
	Timeout          time.Duration `koanf:"timeout"`      // open -> half-open
	FailureThreshold uint32        `koanf:"failure_threshold"`
}

// IngestConfig holds the reaction submission quota.
type IngestConfig struct {
	RateLimitMax        int           `koanf:"rate_limit_max"`
	RateLimitWindow     time.Duration `koanf:"rate_limit_window"`
	RateLimitMaxSources int           `koanf:"rate_limit_max_sources"`
	MaxBodyBytes        int64         `koanf:"max_body_bytes"`
	// RequireKnownContent rejects content ids missing from the loaded manifest.
	RequireKnownContent bool `koanf:"require_known_content"`
}

// ManifestConfig points at the content manifest file. Empty disables catalog checks.
type ManifestConfig struct {
	Path string `koanf:"path"`
}

// SecurityConfig holds read-path protections.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig mirrors logging.Config for file and env loading.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, config file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
