// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package ingest

import (
	"bytes"
	"math"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moodmirror/internal/models"
	"github.com/tomtom215/moodmirror/internal/validation"
)

// MaxIdentifierLength bounds content_id and session_id in UTF-16 units.
const MaxIdentifierLength = 200

// Payload is the wire form of a submission. It is what well-behaved clients
// send; the gateway itself decodes field by field.
type Payload struct {
	ContentID       string  `json:"content_id" validate:"required,utf16len=1-200"`
	SessionID       string  `json:"session_id" validate:"required,utf16len=1-200"`
	Happy           float64 `json:"happy" validate:"gte=0,lte=1"`
	Sad             float64 `json:"sad" validate:"gte=0,lte=1"`
	Angry           float64 `json:"angry" validate:"gte=0,lte=1"`
	Disgusted       float64 `json:"disgusted" validate:"gte=0,lte=1"`
	Fearful         float64 `json:"fearful" validate:"gte=0,lte=1"`
	Surprised       float64 `json:"surprised" validate:"gte=0,lte=1"`
	DominantEmotion string  `json:"dominant_emotion" validate:"required,dominant_emotion"`
	UserConfirmed   *bool   `json:"user_confirmed,omitempty"`
}

// decodeRecord checks raw against the wire contract in order and returns the
// record to persist. ReceivedAt is left for the caller.
func decodeRecord(raw []byte, catalog Catalog) (*models.ReactionRecord, *RejectionError) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, invalidPayload()
	}

	rec := &models.ReactionRecord{}

	contentID, ok := identifier(fields["content_id"])
	if !ok || (catalog != nil && !catalog.Contains(contentID)) {
		return nil, invalidField("content_id")
	}
	rec.ContentID = contentID

	sessionID, ok := identifier(fields["session_id"])
	if !ok {
		return nil, invalidField("session_id")
	}
	rec.SessionID = sessionID

	var dominant string
	if !decodeString(fields["dominant_emotion"], &dominant) {
		return nil, invalidField("dominant_emotion")
	}
	emotion, ok := models.ParseEmotion(dominant)
	if !ok {
		return nil, invalidField("dominant_emotion")
	}
	rec.DominantEmotion = emotion

	for _, e := range models.ScoreEmotions {
		v, ok := score(fields[string(e)])
		if !ok {
			return nil, invalidScore(string(e))
		}
		rec.SetScore(e, v)
	}

	confirmed, ok := optionalBool(fields["user_confirmed"])
	if !ok {
		return nil, invalidField("user_confirmed")
	}
	rec.UserConfirmed = confirmed

	return rec, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeString(raw json.RawMessage, dst *string) bool {
	if isNull(raw) {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func identifier(raw json.RawMessage) (string, bool) {
	var s string
	if !decodeString(raw, &s) {
		return "", false
	}
	n := validation.UTF16Len(s)
	return s, n >= 1 && n <= MaxIdentifierLength
}

func score(raw json.RawMessage) (float64, bool) {
	if isNull(raw) {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1 {
		return 0, false
	}
	return v, true
}

func optionalBool(raw json.RawMessage) (*bool, bool) {
	if isNull(raw) {
		return nil, true
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, false
	}
	return &b, true
}
