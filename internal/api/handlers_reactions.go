// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package api

import (
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moodmirror/internal/ingest"
	"github.com/tomtom215/moodmirror/internal/logging"
	"github.com/tomtom215/moodmirror/internal/ratelimit"
)

type ingestSuccess struct {
	Success bool `json:"success"`
}

type ingestError struct {
	Error string `json:"error"`
}

// SubmitReaction is the ingestion endpoint. OPTIONS answers the CORS
// preflight; every other method goes through the gateway, which rejects
// anything but POST.
func (h *Handler) SubmitReaction(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		hdr := w.Header()
		hdr.Set("Access-Control-Allow-Origin", "*")
		hdr.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		hdr.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// Oversized or broken bodies become nil and fail as Invalid JSON after
	// the method and rate checks.
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Reaction body unreadable")
		body = nil
	}

	err = h.gateway.Submit(r.Context(), ingest.Request{
		Method:    r.Method,
		SourceKey: ratelimit.SourceKeyFromHeaders(r.Header),
		Body:      body,
	})
	if err == nil {
		writeIngestJSON(w, r, http.StatusOK, ingestSuccess{Success: true})
		return
	}

	rej, ok := ingest.AsRejection(err)
	if !ok {
		writeIngestJSON(w, r, http.StatusInternalServerError, ingestError{Error: "Failed to save reaction"})
		return
	}
	writeIngestJSON(w, r, rejectionStatus(rej.Kind), ingestError{Error: rej.Message})
}

func rejectionStatus(k ingest.Kind) int {
	switch k {
	case ingest.KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ingest.KindRateLimited:
		return http.StatusTooManyRequests
	case ingest.KindInvalidPayload, ingest.KindInvalidField:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeIngestJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode ingestion response")
	}
}
