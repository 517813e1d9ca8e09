// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package api

import (
	"context"
	"time"

	"github.com/tomtom215/moodmirror/internal/ingest"
	"github.com/tomtom215/moodmirror/internal/models"
	"github.com/tomtom215/moodmirror/internal/rankings"
	"github.com/tomtom215/moodmirror/internal/rotation"
)

// DefaultMaxBodyBytes caps request bodies when HandlerDeps leaves it unset.
const DefaultMaxBodyBytes int64 = 64 << 10

// StoreChecker is what readiness probes need from the store.
type StoreChecker interface {
	Ping(ctx context.Context) error
	Backend() string
}

// HandlerDeps wires a Handler. Manifest may be nil.
type HandlerDeps struct {
	Gateway      *ingest.Gateway
	Rankings     *rankings.Service
	Selector     *rotation.Selector
	Manifest     *models.ContentManifest
	Store        StoreChecker
	MaxBodyBytes int64
}

// Handler serves every MoodMirror endpoint.
type Handler struct {
	gateway      *ingest.Gateway
	rankings     *rankings.Service
	selector     *rotation.Selector
	manifest     *models.ContentManifest
	store        StoreChecker
	maxBodyBytes int64
	startTime    time.Time
}

// NewHandler creates a Handler from its dependencies.
func NewHandler(deps HandlerDeps) *Handler {
	maxBody := deps.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Handler{
		gateway:      deps.Gateway,
		rankings:     deps.Rankings,
		selector:     deps.Selector,
		manifest:     deps.Manifest,
		store:        deps.Store,
		maxBodyBytes: maxBody,
		startTime:    time.Now(),
	}
}
