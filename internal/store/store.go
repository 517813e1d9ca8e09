// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

// Package store defines the persistence contract shared by the reaction
// backends (DuckDB, SQLite and Supabase) and the circuit breaker that guards
// them.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/moodmirror/internal/models"
)

// ErrUnavailable is returned while the circuit breaker refuses calls.
var ErrUnavailable = errors.New("reaction store unavailable")

// ErrInvalidOrder is returned for an ordering that is not a ranking column.
var ErrInvalidOrder = errors.New("invalid ranking order")

// ReactionWriter appends reactions. Records are never updated or deleted.
type ReactionWriter interface {
	InsertReaction(ctx context.Context, r *models.ReactionRecord) error
}

// RankingReader reads the aggregate views.
type RankingReader interface {
	// ListRankings returns every aggregate of the mode's view, ordered by
	// orderBy descending and then content_id ascending. An empty orderBy
	// orders by total_reactions.
	ListRankings(ctx context.Context, mode models.RankingMode, orderBy models.Emotion) ([]models.RankingAggregate, error)

	// GetRanking returns one aggregate, or nil when the item has no reactions.
	GetRanking(ctx context.Context, mode models.RankingMode, contentID string) (*models.RankingAggregate, error)
}

// Store is a complete reaction backend.
type Store interface {
	ReactionWriter
	RankingReader
	Ping(ctx context.Context) error
	Close() error
	// Backend names the implementation for metrics and logs.
	Backend() string
}

// Column names of the aggregate views.
const (
	ColumnContentID      = "content_id"
	ColumnTotalReactions = "total_reactions"
)

// OrderColumn maps an ordering to a whitelisted view column. Callers
// interpolate the result into SQL, so nothing else may pass.
func OrderColumn(orderBy models.Emotion) (string, error) {
	if orderBy == "" {
		return ColumnTotalReactions, nil
	}
	col := orderBy.AverageColumn()
	if col == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidOrder, orderBy)
	}
	return col, nil
}

// ViewName returns the aggregate view backing a ranking mode.
func ViewName(mode models.RankingMode) (string, error) {
	switch mode {
	case models.RankingWeighted, "":
		return "content_rankings", nil
	case models.RankingConfirmed:
		return "content_rankings_confirmed", nil
	default:
		return "", fmt.Errorf("unknown ranking mode %q", mode)
	}
}
