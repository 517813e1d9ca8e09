// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

// Package rankings answers read-only questions over the aggregate views:
// an item's position for an emotion, its statistics, and the dashboard.
//
// Store failures never surface to callers. They are logged, counted, and
// the empty result is returned.
package rankings

import (
	"context"
	"sort"

	"github.com/tomtom215/moodmirror/internal/logging"
	"github.com/tomtom215/moodmirror/internal/metrics"
	"github.com/tomtom215/moodmirror/internal/models"
	"github.com/tomtom215/moodmirror/internal/store"
)

// FilterAll is the dashboard filter that keeps the total_reactions order.
const FilterAll = "all"

// Filters is the dashboard's filter cycle.
var Filters = []string{
	FilterAll,
	string(models.EmotionHappy),
	string(models.EmotionSad),
	string(models.EmotionAngry),
	string(models.EmotionDisgusted),
	string(models.EmotionFearful),
	string(models.EmotionSurprised),
}

// NextFilter returns the filter after current, wrapping around. Unknown
// filters restart the cycle.
func NextFilter(current string) string {
	for i, f := range Filters {
		if f == current {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// Service is the ranking query layer.
type Service struct {
	reader   store.RankingReader
	manifest *models.ContentManifest
}

// NewService reads from r. The manifest, which may be nil, supplies
// filenames for dashboard entries.
func NewService(r store.RankingReader, manifest *models.ContentManifest) *Service {
	return &Service{reader: r, manifest: manifest}
}

func degraded(ctx context.Context, op string, err error) {
	metrics.RecordRankingDegraded(op)
	logging.Ctx(ctx).Warn().Err(err).Str("operation", op).Msg("Ranking query failed, serving empty result")
}

// RankOf returns the 1-based position of contentID in the weighted view
// ordered by the emotion's average. ok is false when the item has no
// reactions or emotion has no score.
func (s *Service) RankOf(ctx context.Context, contentID string, emotion models.Emotion) (rank int, ok bool) {
	if !emotion.IsScoreEmotion() {
		return 0, false
	}
	rows, err := s.reader.ListRankings(ctx, models.RankingWeighted, emotion)
	if err != nil {
		degraded(ctx, "rank_of", err)
		return 0, false
	}
	for i := range rows {
		if rows[i].ContentID == contentID {
			return i + 1, true
		}
	}
	return 0, false
}

// StatsOf returns the weighted aggregate for contentID, or nil.
func (s *Service) StatsOf(ctx context.Context, contentID string) *models.RankingAggregate {
	agg, err := s.reader.GetRanking(ctx, models.RankingWeighted, contentID)
	if err != nil {
		degraded(ctx, "stats_of", err)
		return nil
	}
	return agg
}

// AllRankings returns every aggregate of the mode's view ordered by
// total_reactions. When sortBy is a score emotion the rows are stably
// re-sorted by that average, descending.
func (s *Service) AllRankings(ctx context.Context, mode models.RankingMode, sortBy models.Emotion) []models.RankingAggregate {
	rows, err := s.reader.ListRankings(ctx, mode, "")
	if err != nil {
		degraded(ctx, "all_rankings", err)
		return []models.RankingAggregate{}
	}
	if rows == nil {
		rows = []models.RankingAggregate{}
	}
	if sortBy.IsScoreEmotion() {
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Average(sortBy) > rows[j].Average(sortBy)
		})
	}
	return rows
}

// Dashboard projects AllRankings into display rows. filter is FilterAll or
// a score emotion.
func (s *Service) Dashboard(ctx context.Context, mode models.RankingMode, filter string) []models.DashboardEntry {
	var sortBy models.Emotion
	if filter != FilterAll {
		sortBy = models.Emotion(filter)
	}
	rows := s.AllRankings(ctx, mode, sortBy)

	entries := make([]models.DashboardEntry, len(rows))
	for i, agg := range rows {
		entries[i] = models.DashboardEntry{Rank: i + 1, RankingAggregate: agg}
		if item, ok := s.manifest.Lookup(agg.ContentID); ok {
			entries[i].Filename = item.Filename
		}
	}
	return entries
}

// CollectiveResult summarizes how contentID ranks for emotion, as shown to a
// viewer after reacting.
func (s *Service) CollectiveResult(ctx context.Context, contentID string, emotion models.Emotion) models.CollectiveResult {
	res := models.CollectiveResult{ContentID: contentID, Emotion: emotion}

	stats := s.StatsOf(ctx, contentID)
	if stats == nil || stats.TotalReactions == 0 {
		res.First = true
		return res
	}
	res.TotalReactions = stats.TotalReactions
	if rank, ok := s.RankOf(ctx, contentID, emotion); ok {
		res.Rank = rank
	}
	return res
}
