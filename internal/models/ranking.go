// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package models

import "fmt"

// RankingMode selects which aggregate view a ranking query reads.
type RankingMode string

const (
	// RankingWeighted aggregates every stored reaction.
	RankingWeighted RankingMode = "weighted"
	// RankingConfirmed aggregates only reactions with user_confirmed = true.
	RankingConfirmed RankingMode = "confirmed"
)

// ParseRankingMode converts a query value to a RankingMode. Empty means weighted.
func ParseRankingMode(s string) (RankingMode, error) {
	switch RankingMode(s) {
	case "", RankingWeighted:
		return RankingWeighted, nil
	case RankingConfirmed:
		return RankingConfirmed, nil
	default:
		return "", fmt.Errorf("unknown ranking mode %q", s)
	}
}

// RankingAggregate is the per-content projection computed by the store.
type RankingAggregate struct {
	ContentID      string  `json:"content_id"`
	AvgHappy       float64 `json:"avg_happy"`
	AvgSad         float64 `json:"avg_sad"`
	AvgAngry       float64 `json:"avg_angry"`
	AvgDisgusted   float64 `json:"avg_disgusted"`
	AvgFearful     float64 `json:"avg_fearful"`
	AvgSurprised   float64 `json:"avg_surprised"`
	TotalReactions int64   `json:"total_reactions"`
}

// Average returns the averaged score for e; emotions without a score yield 0.
func (a *RankingAggregate) Average(e Emotion) float64 {
	switch e {
	case EmotionHappy:
		return a.AvgHappy
	case EmotionSad:
		return a.AvgSad
	case EmotionAngry:
		return a.AvgAngry
	case EmotionDisgusted:
		return a.AvgDisgusted
	case EmotionFearful:
		return a.AvgFearful
	case EmotionSurprised:
		return a.AvgSurprised
	default:
		return 0
	}
}

// DashboardEntry is a ranking row prepared for display.
type DashboardEntry struct {
	Rank     int    `json:"rank"`
	Filename string `json:"filename,omitempty"`
	RankingAggregate
}

// CollectiveResult answers "how does this item rank for this emotion".
type CollectiveResult struct {
	ContentID      string  `json:"content_id"`
	Emotion        Emotion `json:"emotion"`
	Rank           int     `json:"rank,omitempty"`
	TotalReactions int64   `json:"total_reactions"`
	// First is true when nobody has reacted to the item yet.
	First bool `json:"first"`
}
