// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

/*
Package metrics defines the Prometheus collectors MoodMirror exports.

Collectors are registered on the default registry with promauto and served
by promhttp at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

API:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests

The endpoint label is the chi route pattern (e.g. /api/v1/content/{id}/stats)
so content ids never become label values.

Ingestion:
  - reactions_accepted_total
  - reactions_rejected_total{reason}: method_not_allowed, rate_limited,
    invalid_payload, invalid_field, storage_error
  - rate_limit_hits_total
  - rate_limit_tracked_sources

Store:
  - store_query_duration_seconds{operation, backend}
  - store_query_errors_total{operation, backend}
  - store_circuit_state{name}: 0 closed, 1 half-open, 2 open

Rankings:
  - ranking_degraded_total{operation}: reads served empty after a store failure

# Usage

Packages call the Record and Set helpers rather than touching collectors:

	metrics.RecordStoreQuery("insert_reaction", "duckdb", time.Since(start), err)
	metrics.SetCircuitState("reaction-store", 2)
*/
package metrics
