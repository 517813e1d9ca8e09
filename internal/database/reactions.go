// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tomtom215/moodmirror/internal/database/query"
	"github.com/tomtom215/moodmirror/internal/models"
	"github.com/tomtom215/moodmirror/internal/store"
)

var _ store.Store = (*DB)(nil)

const insertReactionSQL = `INSERT INTO reactions (
	id, content_id, session_id,
	happy, sad, angry, disgusted, fearful, surprised,
	dominant_emotion, user_confirmed, received_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// InsertReaction appends one reaction.
func (db *DB) InsertReaction(ctx context.Context, r *models.ReactionRecord) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx, insertReactionSQL,
		uuid.NewString(), r.ContentID, r.SessionID,
		r.Happy, r.Sad, r.Angry, r.Disgusted, r.Fearful, r.Surprised,
		string(r.DominantEmotion), nullBool(r.UserConfirmed), r.ReceivedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert reaction: %w", err)
	}
	return nil
}

// ListRankings implements store.RankingReader.
func (db *DB) ListRankings(ctx context.Context, mode models.RankingMode, orderBy models.Emotion) ([]models.RankingAggregate, error) {
	view, err := store.ViewName(mode)
	if err != nil {
		return nil, err
	}
	col, err := store.OrderColumn(orderBy)
	if err != nil {
		return nil, err
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	q, args := query.SelectRankings(view, nil, col)
	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", view, err)
	}
	defer closeWithLog(rows, "rows")

	var out []models.RankingAggregate
	for rows.Next() {
		agg, err := scanRanking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", view, err)
	}
	return out, nil
}

// GetRanking implements store.RankingReader.
func (db *DB) GetRanking(ctx context.Context, mode models.RankingMode, contentID string) (*models.RankingAggregate, error) {
	view, err := store.ViewName(mode)
	if err != nil {
		return nil, err
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	q, args := query.SelectRankings(view, query.NewWhereBuilder().AddClause("content_id = ?", contentID), "")
	agg, err := scanRanking(db.conn.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRanking(s rowScanner) (models.RankingAggregate, error) {
	var a models.RankingAggregate
	err := s.Scan(
		&a.ContentID,
		&a.AvgHappy, &a.AvgSad, &a.AvgAngry,
		&a.AvgDisgusted, &a.AvgFearful, &a.AvgSurprised,
		&a.TotalReactions,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return a, err
	}
	if err != nil {
		return a, fmt.Errorf("failed to scan ranking: %w", err)
	}
	return a, nil
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
