// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package models

import "time"

// ReactionRecord is one viewer's summarized reaction to a content item.
// Records are append-only: created by the ingestion gateway, never mutated.
type ReactionRecord struct {
	ContentID       string    `json:"content_id"`
	SessionID       string    `json:"session_id"`
	Happy           float64   `json:"happy"`
	Sad             float64   `json:"sad"`
	Angry           float64   `json:"angry"`
	Disgusted       float64   `json:"disgusted"`
	Fearful         float64   `json:"fearful"`
	Surprised       float64   `json:"surprised"`
	DominantEmotion Emotion   `json:"dominant_emotion"`
	UserConfirmed   *bool     `json:"user_confirmed"` // nil when the viewer was not asked
	ReceivedAt      time.Time `json:"received_at"`
}

// Score returns the recorded fraction for a score emotion, 0 otherwise.
func (r *ReactionRecord) Score(e Emotion) float64 {
	switch e {
	case EmotionHappy:
		return r.Happy
	case EmotionSad:
		return r.Sad
	case EmotionAngry:
		return r.Angry
	case EmotionDisgusted:
		return r.Disgusted
	case EmotionFearful:
		return r.Fearful
	case EmotionSurprised:
		return r.Surprised
	default:
		return 0
	}
}

// SetScore assigns the fraction for a score emotion. Unknown emotions are ignored.
func (r *ReactionRecord) SetScore(e Emotion, v float64) {
	switch e {
	case EmotionHappy:
		r.Happy = v
	case EmotionSad:
		r.Sad = v
	case EmotionAngry:
		r.Angry = v
	case EmotionDisgusted:
		r.Disgusted = v
	case EmotionFearful:
		r.Fearful = v
	case EmotionSurprised:
		r.Surprised = v
	}
}
