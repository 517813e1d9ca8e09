// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package main

import (
	"fmt"

	"github.com/tomtom215/moodmirror/internal/config"
	"github.com/tomtom215/moodmirror/internal/database"
	"github.com/tomtom215/moodmirror/internal/logging"
	"github.com/tomtom215/moodmirror/internal/manifest"
	"github.com/tomtom215/moodmirror/internal/models"
	"github.com/tomtom215/moodmirror/internal/store"
	"github.com/tomtom215/moodmirror/internal/supabase"
	"github.com/tomtom215/moodmirror/internal/supervisor/services"
)

// initStore opens the configured backend. The checkpointer is nil for
// backends without a local WAL.
func initStore(cfg *config.Config) (store.Store, services.Checkpointer, error) {
	switch cfg.Store.Backend {
	case config.BackendDuckDB, config.BackendSQLite:
		db, err := database.New(&cfg.Database, cfg.Store.Backend)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", cfg.Store.Backend, err)
		}
		logging.Info().
			Str("backend", cfg.Store.Backend).
			Str("path", cfg.Database.Path).
			Msg("Reaction store opened")
		return db, db, nil

	case config.BackendSupabase:
		sb, err := supabase.New(cfg.Supabase)
		if err != nil {
			return nil, nil, fmt.Errorf("connect supabase: %w", err)
		}
		logging.Info().Str("backend", config.BackendSupabase).Str("url", cfg.Supabase.URL).Msg("Reaction store connected")
		return sb, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// initManifest loads the content manifest when a path is configured. A
// missing or invalid file disables rotation and catalog checks instead of
// failing startup.
func initManifest(cfg *config.Config) *models.ContentManifest {
	if cfg.Manifest.Path == "" {
		logging.Info().Msg("No content manifest configured")
		return nil
	}
	m, err := manifest.Load(cfg.Manifest.Path)
	if err != nil {
		logging.Warn().Err(err).Str("path", cfg.Manifest.Path).Msg("Content manifest unavailable")
		return nil
	}
	logging.Info().Str("path", cfg.Manifest.Path).Int("items", m.Len()).Msg("Content manifest loaded")
	return m
}
