// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/moodmirror/internal/logging"
)

// HealthLive handles liveness probe requests.
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests.
// Returns 200 OK only when the reaction store answers a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		NewResponseWriter(w, r).ServiceUnavailable(ErrCodeServiceUnavailable, "No store configured")
		return
	}

	if err := h.store.Ping(r.Context()); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("backend", h.store.Backend()).Msg("Readiness check failed")
		NewResponseWriter(w, r).ServiceUnavailable(ErrCodeServiceUnavailable, "Store unavailable")
		return
	}

	NewResponseWriter(w, r).Success(map[string]interface{}{
		"ready":   true,
		"backend": h.store.Backend(),
		"uptime":  time.Since(h.startTime).Seconds(),
	})
}
