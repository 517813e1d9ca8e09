// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package services

import (
	"context"
	"time"

	"github.com/tomtom215/moodmirror/internal/logging"
)

// Checkpointer flushes a store's write-ahead log into its main file.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointService checkpoints the embedded database on an interval so
// the WAL stays small between restarts. Failures are logged and retried on
// the next tick; the service itself never exits early.
type CheckpointService struct {
	target   Checkpointer
	interval time.Duration
}

// NewCheckpointService checkpoints target every interval (default 5m).
func NewCheckpointService(target Checkpointer, interval time.Duration) *CheckpointService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CheckpointService{target: target, interval: interval}
}

// Serve implements suture.Service.
func (c *CheckpointService) Serve(ctx context.Context) error {
	log := logging.WithComponent("checkpoint")
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := c.target.Checkpoint(ctx); err != nil {
				log.Warn().Err(err).Msg("Checkpoint failed")
				continue
			}
			log.Debug().Dur("duration", time.Since(start)).Msg("Checkpoint complete")
		}
	}
}

// String implements fmt.Stringer.
func (c *CheckpointService) String() string {
	return "store-checkpoint"
}
