// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Store.Backend != BackendDuckDB {
		t.Errorf("Store.Backend = %q, want duckdb", cfg.Store.Backend)
	}
	if cfg.Ingest.RateLimitMax != 10 {
		t.Errorf("Ingest.RateLimitMax = %d, want 10", cfg.Ingest.RateLimitMax)
	}
	if cfg.Ingest.RateLimitWindow != 60*time.Second {
		t.Errorf("Ingest.RateLimitWindow = %v, want 60s", cfg.Ingest.RateLimitWindow)
	}
	if !cfg.Breaker.Enabled || cfg.Breaker.FailureThreshold != 5 {
		t.Errorf("Breaker = %+v", cfg.Breaker)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("DUCKDB_PATH", "/tmp/reactions.db")
	t.Setenv("RATE_LIMIT_MAX", "3")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Store.Backend != BackendSQLite {
		t.Errorf("Store.Backend = %q, want sqlite", cfg.Store.Backend)
	}
	if cfg.Database.Path != "/tmp/reactions.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Ingest.RateLimitMax != 3 {
		t.Errorf("Ingest.RateLimitMax = %d, want 3", cfg.Ingest.RateLimitMax)
	}
	if cfg.Ingest.RateLimitWindow != 30*time.Second {
		t.Errorf("Ingest.RateLimitWindow = %v, want 30s", cfg.Ingest.RateLimitWindow)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 7070
ingest:
  rate_limit_max: 20
manifest:
  path: /srv/content/content-manifest.json
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7171")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	// env wins over file
	if cfg.Server.Port != 7171 {
		t.Errorf("Server.Port = %d, want 7171", cfg.Server.Port)
	}
	if cfg.Ingest.RateLimitMax != 20 {
		t.Errorf("Ingest.RateLimitMax = %d, want 20", cfg.Ingest.RateLimitMax)
	}
	if cfg.Manifest.Path != "/srv/content/content-manifest.json" {
		t.Errorf("Manifest.Path = %q", cfg.Manifest.Path)
	}
	// untouched defaults survive
	if cfg.Ingest.RateLimitWindow != 60*time.Second {
		t.Errorf("Ingest.RateLimitWindow = %v, want 60s", cfg.Ingest.RateLimitWindow)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "mysql" }, "STORE_BACKEND"},
		{"supabase without key", func(c *Config) {
			c.Store.Backend = BackendSupabase
			c.Supabase.URL = "https://example.supabase.co"
		}, "SUPABASE_SERVICE_ROLE_KEY"},
		{"supabase complete", func(c *Config) {
			c.Store.Backend = BackendSupabase
			c.Supabase.URL = "https://example.supabase.co"
			c.Supabase.ServiceRoleKey = "secret"
		}, ""},
		{"zero quota", func(c *Config) { c.Ingest.RateLimitMax = 0 }, "RATE_LIMIT_MAX"},
		{"zero window", func(c *Config) { c.Ingest.RateLimitWindow = 0 }, "RATE_LIMIT_WINDOW"},
		{"api limit disabled", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"HTTP_PORT":                 "server.port",
		"SUPABASE_SERVICE_ROLE_KEY": "supabase.service_role_key",
		"log_level":                 "logging.level",
		"PATH":                      "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}
