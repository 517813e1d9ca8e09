// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package models

// Emotion is a label produced by the emotion inference collaborator.
type Emotion string

const (
	EmotionHappy     Emotion = "happy"
	EmotionSad       Emotion = "sad"
	EmotionAngry     Emotion = "angry"
	EmotionDisgusted Emotion = "disgusted"
	EmotionFearful   Emotion = "fearful"
	EmotionSurprised Emotion = "surprised"

	// EmotionUnsure is only valid as a dominant emotion; it has no score.
	EmotionUnsure Emotion = "unsure"
)

// ScoreEmotions lists the emotions that carry a score, in the order the
// ingestion gateway validates them.
var ScoreEmotions = []Emotion{
	EmotionHappy,
	EmotionSad,
	EmotionAngry,
	EmotionDisgusted,
	EmotionFearful,
	EmotionSurprised,
}

// DominantEmotions lists every label accepted as dominant_emotion.
var DominantEmotions = append(append([]Emotion{}, ScoreEmotions...), EmotionUnsure)

// IsScoreEmotion reports whether e has an averaged score column.
func (e Emotion) IsScoreEmotion() bool {
	for _, s := range ScoreEmotions {
		if s == e {
			return true
		}
	}
	return false
}

// IsDominant reports whether e is a recognized dominant emotion label.
func (e Emotion) IsDominant() bool {
	return e == EmotionUnsure || e.IsScoreEmotion()
}

// AverageColumn returns the aggregate column name for a score emotion
// (avg_happy, avg_sad, ...). It returns "" for emotions without a score.
func (e Emotion) AverageColumn() string {
	if !e.IsScoreEmotion() {
		return ""
	}
	return "avg_" + string(e)
}

// ParseEmotion converts a string to a recognized Emotion.
func ParseEmotion(s string) (Emotion, bool) {
	e := Emotion(s)
	return e, e.IsDominant()
}
