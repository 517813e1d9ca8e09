// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

// Package ratelimit implements the per-source fixed-window submission quota.
//
// Counters live in process memory only. A restart resets every quota and
// separate instances do not coordinate; limiting is best-effort.
package ratelimit

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// Defaults for reaction submissions.
const (
	DefaultWindow     = 60 * time.Second
	DefaultMax        = 10
	DefaultMaxEntries = 100_000
)

// UnknownSource is the shared bucket for requests without origin headers.
const UnknownSource = "unknown"

// Limiter decides whether one more request from a source is allowed. Allow
// must read, reset and increment the source's window as one atomic step.
type Limiter interface {
	Allow(sourceKey string) bool
}

// Entry is the counter state for one source.
type Entry struct {
	WindowStart time.Time
	Count       int
}

// FixedWindow is a mutex-guarded map of per-source counters.
//
// Bursts straddling a window boundary can briefly exceed the nominal rate.
type FixedWindow struct {
	window     time.Duration
	max        int
	maxEntries int
	now        func() time.Time

	mu        sync.Mutex
	entries   map[string]*Entry
	lastPrune time.Time
	prunes    int
}

// Option configures a FixedWindow.
type Option func(*FixedWindow)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *FixedWindow) { l.now = now }
}

// WithMaxEntries sets the number of tracked sources above which expired
// entries are pruned. Pruning runs at most once per window, so a map full of
// live sources may grow past n until their windows expire.
func WithMaxEntries(n int) Option {
	return func(l *FixedWindow) { l.maxEntries = n }
}

// NewFixedWindow allows max requests per source per window. Non-positive
// arguments fall back to the defaults.
func NewFixedWindow(max int, window time.Duration, opts ...Option) *FixedWindow {
	if max <= 0 {
		max = DefaultMax
	}
	if window <= 0 {
		window = DefaultWindow
	}
	l := &FixedWindow{
		window:     window,
		max:        max,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
		entries:    make(map[string]*Entry),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records one request from sourceKey and reports whether it is within quota.
func (l *FixedWindow) Allow(sourceKey string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[sourceKey]
	if !ok || now.Sub(e.WindowStart) > l.window {
		if !ok && l.maxEntries > 0 && len(l.entries) >= l.maxEntries && now.Sub(l.lastPrune) > l.window {
			l.pruneLocked(now)
		}
		l.entries[sourceKey] = &Entry{WindowStart: now, Count: 1}
		return true
	}

	e.Count++
	return e.Count <= l.max
}

// pruneLocked drops entries whose window has expired. Caller holds mu.
func (l *FixedWindow) pruneLocked(now time.Time) {
	l.lastPrune = now
	l.prunes++
	for key, e := range l.entries {
		if now.Sub(e.WindowStart) > l.window {
			delete(l.entries, key)
		}
	}
}

// Len returns the number of tracked sources.
func (l *FixedWindow) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Snapshot returns a copy of the entry for sourceKey.
func (l *FixedWindow) Snapshot(sourceKey string) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[sourceKey]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// SourceKeyFromHeaders derives the caller's network origin: the first entry
// of X-Forwarded-For, else CF-Connecting-IP, else UnknownSource.
func SourceKeyFromHeaders(h http.Header) string {
	if fwd := h.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if ip := strings.TrimSpace(h.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	return UnknownSource
}
