// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

// Package validation wraps go-playground/validator v10 with a shared,
// lazily built validator and MoodMirror's custom tags.
//
// # Custom Tags
//
//   - emotion: one of the six scored emotions
//   - dominant_emotion: a scored emotion or "unsure"
//   - emotion_filter: "all" or a scored emotion
//   - utf16len=min-max: length counted in UTF-16 code units, the way
//     browsers count string length
//
// # Usage
//
//	type ContentRankRequest struct {
//	    ID      string `validate:"required,utf16len=1-200"`
//	    Emotion string `validate:"required,dominant_emotion"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    // respond 400 with apiErr.Code, apiErr.Message, apiErr.Details
//	}
//
// Error messages name the JSON field, not the Go field.
package validation
