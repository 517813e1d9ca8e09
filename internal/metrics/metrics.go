// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Ingestion Metrics
	ReactionsAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reactions_accepted_total",
			Help: "Total number of reactions persisted",
		},
	)

	ReactionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reactions_rejected_total",
			Help: "Total number of rejected reaction submissions by reason",
		},
		[]string{"reason"}, // method_not_allowed, rate_limited, invalid_payload, invalid_field, storage_error
	)

	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limit_hits_total",
			Help: "Total number of submissions rejected by the per-source quota",
		},
	)

	RateLimitTrackedSources = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limit_tracked_sources",
			Help: "Number of sources with a live rate limit window",
		},
	)

	// Store Metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Duration of reaction store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "backend"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_query_errors_total",
			Help: "Total number of failed reaction store operations",
		},
		[]string{"operation", "backend"},
	)

	StoreCircuitState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "store_circuit_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Ranking Metrics
	RankingDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_degraded_total",
			Help: "Ranking reads that failed and were served as empty results",
		},
		[]string{"operation"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordStoreQuery records one store operation and its outcome.
func RecordStoreQuery(operation, backend string, duration time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(operation, backend).Observe(duration.Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(operation, backend).Inc()
	}
}

// RecordReactionAccepted counts a persisted reaction.
func RecordReactionAccepted() {
	ReactionsAccepted.Inc()
}

// RecordReactionRejected counts a rejected submission.
func RecordReactionRejected(reason string) {
	ReactionsRejected.WithLabelValues(reason).Inc()
	if reason == "rate_limited" {
		RateLimitHits.Inc()
	}
}

// SetRateLimitSources publishes the number of tracked rate limit sources.
func SetRateLimitSources(n int) {
	RateLimitTrackedSources.Set(float64(n))
}

// SetCircuitState publishes a breaker state (0=closed, 1=half-open, 2=open).
func SetCircuitState(name string, state int) {
	StoreCircuitState.WithLabelValues(name).Set(float64(state))
}

// RecordRankingDegraded counts a ranking read served empty after a failure.
func RecordRankingDegraded(operation string) {
	RankingDegraded.WithLabelValues(operation).Inc()
}
