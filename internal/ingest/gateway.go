// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

// Package ingest validates, rate limits and persists reaction submissions.
//
// Checks run in a fixed order and stop at the first failure: method, rate
// limit, JSON shape, content_id, session_id, dominant_emotion, the six
// scores, user_confirmed, then the write. Nothing is retried.
package ingest

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/moodmirror/internal/logging"
	"github.com/tomtom215/moodmirror/internal/metrics"
	"github.com/tomtom215/moodmirror/internal/ratelimit"
	"github.com/tomtom215/moodmirror/internal/store"
)

// Catalog reports whether a content id is known.
type Catalog interface {
	Contains(id string) bool
}

// Request is one submission as seen at the network boundary.
type Request struct {
	Method    string
	SourceKey string
	Body      []byte
}

// Gateway is the single entry point for reaction writes.
type Gateway struct {
	writer  store.ReactionWriter
	limiter ratelimit.Limiter
	catalog Catalog
	now     func() time.Time
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithCatalog rejects content ids the catalog does not contain.
func WithCatalog(c Catalog) Option {
	return func(g *Gateway) { g.catalog = c }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// NewGateway builds a gateway writing to w and throttled by l.
func NewGateway(w store.ReactionWriter, l ratelimit.Limiter, opts ...Option) *Gateway {
	g := &Gateway{writer: w, limiter: l, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Submit processes one request. A nil error means the reaction was stored;
// otherwise the error is a *RejectionError.
func (g *Gateway) Submit(ctx context.Context, req Request) error {
	err := g.submit(ctx, req)
	if err == nil {
		metrics.RecordReactionAccepted()
		return nil
	}

	metrics.RecordReactionRejected(err.Kind.String())
	log := logging.Ctx(ctx)
	switch err.Kind {
	case KindStorage:
		log.Error().Err(err.Err).Msg("Failed to save reaction")
	case KindRateLimited:
		log.Warn().Str("source", req.SourceKey).Msg("Reaction rate limit exceeded")
	default:
		log.Debug().
			Str("reason", err.Kind.String()).
			Str("field", err.Field).
			Msg("Reaction rejected")
	}
	return err
}

func (g *Gateway) submit(ctx context.Context, req Request) *RejectionError {
	if req.Method != http.MethodPost {
		return methodNotAllowed()
	}

	source := req.SourceKey
	if source == "" {
		source = ratelimit.UnknownSource
	}
	allowed := g.limiter.Allow(source)
	if sized, ok := g.limiter.(interface{ Len() int }); ok {
		metrics.SetRateLimitSources(sized.Len())
	}
	if !allowed {
		return rateLimited()
	}

	rec, rej := decodeRecord(req.Body, g.catalog)
	if rej != nil {
		return rej
	}
	rec.ReceivedAt = g.now().UTC()

	if err := g.writer.InsertReaction(ctx, rec); err != nil {
		return storageFailure(err)
	}
	return nil
}
