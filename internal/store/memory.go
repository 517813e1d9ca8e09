// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/moodmirror/internal/models"
)

// Memory is an in-process Store that aggregates on read with the same
// semantics as the SQL views. It backs handler and service tests.
type Memory struct {
	mu      sync.RWMutex
	records []models.ReactionRecord
	err     error
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// FailWith makes every subsequent call return err; nil restores service.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Records returns a copy of the stored reactions.
func (m *Memory) Records() []models.ReactionRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.ReactionRecord(nil), m.records...)
}

// InsertReaction implements ReactionWriter.
func (m *Memory) InsertReaction(ctx context.Context, r *models.ReactionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, *r)
	return nil
}

// ListRankings implements RankingReader.
func (m *Memory) ListRankings(ctx context.Context, mode models.RankingMode, orderBy models.Emotion) ([]models.RankingAggregate, error) {
	if _, err := ViewName(mode); err != nil {
		return nil, err
	}
	if _, err := OrderColumn(orderBy); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}

	rows := m.aggregateLocked(mode)
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		var va, vb float64
		if orderBy == "" {
			va, vb = float64(a.TotalReactions), float64(b.TotalReactions)
		} else {
			va, vb = a.Average(orderBy), b.Average(orderBy)
		}
		if va != vb {
			return va > vb
		}
		return a.ContentID < b.ContentID
	})
	return rows, nil
}

// GetRanking implements RankingReader.
func (m *Memory) GetRanking(ctx context.Context, mode models.RankingMode, contentID string) (*models.RankingAggregate, error) {
	rows, err := m.ListRankings(ctx, mode, "")
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ContentID == contentID {
			return &rows[i], nil
		}
	}
	return nil, nil
}

func (m *Memory) aggregateLocked(mode models.RankingMode) []models.RankingAggregate {
	type sums struct {
		scores [6]float64
		n      int64
	}
	byID := make(map[string]*sums)
	for i := range m.records {
		r := &m.records[i]
		if mode == models.RankingConfirmed && (r.UserConfirmed == nil || !*r.UserConfirmed) {
			continue
		}
		s, ok := byID[r.ContentID]
		if !ok {
			s = &sums{}
			byID[r.ContentID] = s
		}
		for k, e := range models.ScoreEmotions {
			s.scores[k] += r.Score(e)
		}
		s.n++
	}

	rows := make([]models.RankingAggregate, 0, len(byID))
	for id, s := range byID {
		agg := models.RankingAggregate{ContentID: id, TotalReactions: s.n}
		n := float64(s.n)
		agg.AvgHappy = s.scores[0] / n
		agg.AvgSad = s.scores[1] / n
		agg.AvgAngry = s.scores[2] / n
		agg.AvgDisgusted = s.scores[3] / n
		agg.AvgFearful = s.scores[4] / n
		agg.AvgSurprised = s.scores[5] / n
		rows = append(rows, agg)
	}
	return rows
}

// Ping implements Store.
func (m *Memory) Ping(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}

// Close implements Store.
func (m *Memory) Close() error { return nil }

// Backend implements Store.
func (m *Memory) Backend() string { return "memory" }
