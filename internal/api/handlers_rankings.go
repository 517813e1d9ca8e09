// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/moodmirror/internal/models"
	"github.com/tomtom215/moodmirror/internal/rankings"
	"github.com/tomtom215/moodmirror/internal/rotation"
)

// Rankings returns dashboard entries for a view, optionally re-sorted by an
// emotion average.
//
// Query: mode=weighted|confirmed (default weighted), sort=all|<emotion>
// (default all).
func (h *Handler) Rankings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := RankingsRequest{Mode: q.Get("mode"), Sort: q.Get("sort")}
	if !validateRequest(w, r, &req) {
		return
	}

	mode, err := models.ParseRankingMode(req.Mode)
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	filter := req.Sort
	if filter == "" {
		filter = rankings.FilterAll
	}

	entries := h.rankings.Dashboard(r.Context(), mode, filter)
	NewResponseWriter(w, r).SuccessList(entries, len(entries))
}

// ContentStats returns the weighted aggregate for one item, or data:null
// when it has no reactions.
func (h *Handler) ContentStats(w http.ResponseWriter, r *http.Request) {
	req := ContentRequest{ID: chi.URLParam(r, "id")}
	if !validateRequest(w, r, &req) {
		return
	}

	stats := h.rankings.StatsOf(r.Context(), req.ID)
	if stats == nil {
		NewResponseWriter(w, r).Success(nil)
		return
	}
	NewResponseWriter(w, r).Success(stats)
}

// ContentRank returns how an item ranks for the viewer's emotion.
func (h *Handler) ContentRank(w http.ResponseWriter, r *http.Request) {
	req := ContentRankRequest{
		ID:      chi.URLParam(r, "id"),
		Emotion: r.URL.Query().Get("emotion"),
	}
	if !validateRequest(w, r, &req) {
		return
	}

	result := h.rankings.CollectiveResult(r.Context(), req.ID, models.Emotion(req.Emotion))
	NewResponseWriter(w, r).Success(result)
}

// NextContent picks the next item to display. The caller owns the shown
// set and sends it back on every call.
func (h *Handler) NextContent(w http.ResponseWriter, r *http.Request) {
	var req NextContentRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		NewResponseWriter(w, r).BadRequest("Invalid JSON")
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	item, shown, err := h.selector.SelectNext(h.manifest, rotation.NewShownSet(req.Shown...))
	if err != nil {
		if errors.Is(err, rotation.ErrNoContentAvailable) {
			NewResponseWriter(w, r).ServiceUnavailable(ErrCodeNoContent, "No content available")
			return
		}
		WriteError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Selection failed")
		return
	}

	NewResponseWriter(w, r).Success(NextContentResponse{Item: item, Shown: shown.IDs()})
}

// Manifest returns the loaded content manifest.
func (h *Handler) Manifest(w http.ResponseWriter, r *http.Request) {
	if h.manifest == nil {
		NewResponseWriter(w, r).NotFound("No content manifest configured")
		return
	}
	NewResponseWriter(w, r).Success(h.manifest)
}
