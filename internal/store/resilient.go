// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/moodmirror/internal/config"
	"github.com/tomtom215/moodmirror/internal/logging"
	"github.com/tomtom215/moodmirror/internal/metrics"
	"github.com/tomtom215/moodmirror/internal/models"
)

// BreakerName labels the store circuit breaker in metrics and logs.
const BreakerName = "reaction-store"

// Resilient decorates a Store with a circuit breaker and query metrics.
// It fails fast while the backend is down; it never retries.
type Resilient struct {
	next Store
	cb   *gobreaker.CircuitBreaker[any] // nil when the breaker is disabled
}

// NewResilient wraps next. With cfg.Enabled false only metrics are recorded.
func NewResilient(next Store, cfg config.BreakerConfig) *Resilient {
	r := &Resilient{next: next}
	if !cfg.Enabled {
		return r
	}

	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	settings := gobreaker.Settings{
		Name:        BreakerName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A caller giving up is not a backend failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetCircuitState(name, int(to))
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Store circuit breaker state changed")
		},
	}
	r.cb = gobreaker.NewCircuitBreaker[any](settings)
	metrics.SetCircuitState(BreakerName, int(gobreaker.StateClosed))
	return r
}

// State reports the breaker state; closed when disabled.
func (r *Resilient) State() gobreaker.State {
	if r.cb == nil {
		return gobreaker.StateClosed
	}
	return r.cb.State()
}

func (r *Resilient) execute(op string, fn func() (any, error)) (any, error) {
	start := time.Now()

	var (
		res any
		err error
	)
	if r.cb == nil {
		res, err = fn()
	} else {
		res, err = r.cb.Execute(fn)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
	}

	metrics.RecordStoreQuery(op, r.next.Backend(), time.Since(start), err)
	return res, err
}

// InsertReaction implements ReactionWriter.
func (r *Resilient) InsertReaction(ctx context.Context, rec *models.ReactionRecord) error {
	_, err := r.execute("insert_reaction", func() (any, error) {
		return nil, r.next.InsertReaction(ctx, rec)
	})
	return err
}

// ListRankings implements RankingReader.
func (r *Resilient) ListRankings(ctx context.Context, mode models.RankingMode, orderBy models.Emotion) ([]models.RankingAggregate, error) {
	res, err := r.execute("list_rankings", func() (any, error) {
		return r.next.ListRankings(ctx, mode, orderBy)
	})
	if err != nil {
		return nil, err
	}
	rows, _ := res.([]models.RankingAggregate)
	return rows, nil
}

// GetRanking implements RankingReader.
func (r *Resilient) GetRanking(ctx context.Context, mode models.RankingMode, contentID string) (*models.RankingAggregate, error) {
	res, err := r.execute("get_ranking", func() (any, error) {
		return r.next.GetRanking(ctx, mode, contentID)
	})
	if err != nil {
		return nil, err
	}
	agg, _ := res.(*models.RankingAggregate)
	return agg, nil
}

// Ping bypasses the breaker so readiness reflects the backend itself.
func (r *Resilient) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

// Close closes the wrapped store.
func (r *Resilient) Close() error {
	return r.next.Close()
}

// Backend returns the wrapped backend's name.
func (r *Resilient) Backend() string {
	return r.next.Backend()
}
