// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package api

import (
	"net/http"

	"github.com/tomtom215/moodmirror/internal/models"
	"github.com/tomtom215/moodmirror/internal/validation"
)

// RankingsRequest holds the query of GET /api/v1/rankings.
type RankingsRequest struct {
	Mode string `json:"mode" validate:"omitempty,oneof=weighted confirmed"`
	Sort string `json:"sort" validate:"omitempty,emotion_filter"`
}

// ContentRequest identifies one content item by path parameter.
type ContentRequest struct {
	ID string `json:"id" validate:"required,utf16len=1-200"`
}

// ContentRankRequest holds the parameters of GET /api/v1/content/{id}/rank.
type ContentRankRequest struct {
	ID      string `json:"id" validate:"required,utf16len=1-200"`
	Emotion string `json:"emotion" validate:"required,dominant_emotion"`
}

// NextContentRequest is the body of POST /api/v1/content/next.
type NextContentRequest struct {
	Shown []string `json:"shown" validate:"max=10000,dive,max=200"`
}

// NextContentResponse carries the selected item and the updated shown set.
type NextContentResponse struct {
	Item  models.ContentItem `json:"item"`
	Shown []string           `json:"shown"`
}

// validateRequest runs the shared validator and writes a 400 on failure.
// It returns false when the response has been written.
func validateRequest(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	verr := validation.ValidateStruct(req)
	if verr == nil {
		return true
	}
	apiErr := verr.ToAPIError()
	var details interface{}
	if apiErr.Details != nil {
		details = apiErr.Details
	}
	NewResponseWriter(w, r).ValidationError(apiErr.Message, details)
	return false
}
