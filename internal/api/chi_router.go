// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/moodmirror/internal/middleware"
)

// Ingestion paths. The second keeps kiosks built against the hosted
// function URL working unchanged.
const (
	ReactionsPath      = "/api/v1/reactions"
	LegacyReactionPath = "/functions/v1/submit-reaction"
)

// Router binds handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil middleware uses the defaults.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi builds the route tree.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chiMiddleware(middleware.PrometheusMetrics))

	// Ingestion answers its own preflight and is throttled by the gateway,
	// so it stays outside the read-path CORS and rate limiting.
	r.HandleFunc(ReactionsPath, router.handler.SubmitReaction)
	r.HandleFunc(LegacyReactionPath, router.handler.SubmitReaction)

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Mounted subrouter so CORS sees preflights for every read route.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.CORS())
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.Compression))

		r.Get("/rankings", router.handler.Rankings)
		r.Get("/manifest", router.handler.Manifest)
		r.Post("/content/next", router.handler.NextContent)
		r.Get("/content/{id}/stats", router.handler.ContentStats)
		r.Get("/content/{id}/rank", router.handler.ContentRank)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
