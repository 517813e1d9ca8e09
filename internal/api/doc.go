// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

/*
Package api provides the HTTP layer for MoodMirror.

Two kinds of endpoints are served:

Ingestion (/api/v1/reactions, aliased at /functions/v1/submit-reaction)
accepts reaction submissions from kiosks. Its wire format is a flat
{"success":true} or {"error":"..."} body with permissive CORS headers, and
it is throttled by the ingest gateway's fixed-window limiter rather than by
the read-path middleware.

Read endpoints (/api/v1/rankings, /api/v1/content/..., /api/v1/manifest)
use the standard envelope:

	{
	  "success": true,
	  "data": {...},
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}
	}

and sit behind go-chi/cors, go-chi/httprate, security headers and gzip.

Health probes live under /api/v1/health and Prometheus metrics at /metrics.
*/
package api
