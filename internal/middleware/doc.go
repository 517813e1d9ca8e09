// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

/*
Package middleware provides the HTTP middleware shared by every route:
request ids wired into the logging context, Prometheus request metrics and
gzip compression of read responses.

The middleware are plain http.HandlerFunc wrappers; the api package adapts
them to chi with chiMiddleware:

	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.Use(chiMiddleware(middleware.Compression))

Metrics are labelled with the chi route pattern rather than the raw path so
that content ids do not explode label cardinality.
*/
package middleware
