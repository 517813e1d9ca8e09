// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

// Package supabase stores reactions in a hosted Supabase project through its
// PostgREST API. The table and views are defined in schema.sql.
package supabase

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"github.com/tomtom215/moodmirror/internal/config"
	"github.com/tomtom215/moodmirror/internal/models"
	"github.com/tomtom215/moodmirror/internal/store"
)

// ReactionsTable is the append-only reactions table.
const ReactionsTable = "reactions"

//go:embed schema.sql
var schemaSQL string

// Schema returns the SQL that provisions the table and ranking views.
func Schema() string {
	return schemaSQL
}

var _ store.Store = (*Store)(nil)

// Store is a store.Store backed by Supabase. The underlying HTTP client has
// no context support; a context already done is honored before each call.
type Store struct {
	client *supa.Client
}

// New builds a client for the project at cfg.URL using the service role key.
func New(cfg config.SupabaseConfig) (*Store, error) {
	if cfg.URL == "" || cfg.ServiceRoleKey == "" {
		return nil, errors.New("supabase url and service role key are required")
	}
	var opts *supa.ClientOptions
	if cfg.Schema != "" {
		opts = &supa.ClientOptions{Schema: cfg.Schema}
	}
	client, err := supa.NewClient(cfg.URL, cfg.ServiceRoleKey, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &Store{client: client}, nil
}

// InsertReaction implements store.ReactionWriter.
func (s *Store) InsertReaction(ctx context.Context, r *models.ReactionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := s.client.From(ReactionsTable).
		Insert(r, false, "", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to insert reaction: %w", err)
	}
	return nil
}

// ListRankings implements store.RankingReader.
func (s *Store) ListRankings(ctx context.Context, mode models.RankingMode, orderBy models.Emotion) ([]models.RankingAggregate, error) {
	view, err := store.ViewName(mode)
	if err != nil {
		return nil, err
	}
	col, err := store.OrderColumn(orderBy)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []models.RankingAggregate
	_, err = s.client.From(view).
		Select("*", "", false).
		Order(col, &postgrest.OrderOpts{Ascending: false}).
		Order(store.ColumnContentID, &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", view, err)
	}

	// PostgREST versions differ in how they combine order parameters.
	sortRankings(rows, orderBy)
	return rows, nil
}

// GetRanking implements store.RankingReader.
func (s *Store) GetRanking(ctx context.Context, mode models.RankingMode, contentID string) (*models.RankingAggregate, error) {
	view, err := store.ViewName(mode)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []models.RankingAggregate
	_, err = s.client.From(view).
		Select("*", "", false).
		Eq(store.ColumnContentID, contentID).
		Limit(1, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", view, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Ping reads one row of the weighted view.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var rows []map[string]any
	_, err := s.client.From("content_rankings").
		Select(store.ColumnContentID, "", false).
		Limit(1, "").
		ExecuteTo(&rows)
	if err != nil {
		return fmt.Errorf("supabase ping failed: %w", err)
	}
	return nil
}

// Close is a no-op; the client holds no connections of its own.
func (s *Store) Close() error { return nil }

// Backend implements store.Store.
func (s *Store) Backend() string { return config.BackendSupabase }

func sortRankings(rows []models.RankingAggregate, orderBy models.Emotion) {
	key := func(a *models.RankingAggregate) float64 {
		if orderBy == "" {
			return float64(a.TotalReactions)
		}
		return a.Average(orderBy)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		ki, kj := key(&rows[i]), key(&rows[j])
		if ki != kj {
			return ki > kj
		}
		return rows[i].ContentID < rows[j].ContentID
	})
}
