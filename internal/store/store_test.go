// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package store

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/moodmirror/internal/config"
	"github.com/tomtom215/moodmirror/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func reaction(id string, happy float64, confirmed *bool) *models.ReactionRecord {
	return &models.ReactionRecord{
		ContentID:       id,
		SessionID:       "session-1",
		Happy:           happy,
		DominantEmotion: models.EmotionHappy,
		UserConfirmed:   confirmed,
		ReceivedAt:      time.Now().UTC(),
	}
}

func TestOrderColumn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      models.Emotion
		want    string
		wantErr bool
	}{
		{"", ColumnTotalReactions, false},
		{models.EmotionHappy, "avg_happy", false},
		{models.EmotionSurprised, "avg_surprised", false},
		{models.EmotionUnsure, "", true},
		{"happy; DROP TABLE reactions", "", true},
	}
	for _, tt := range tests {
		got, err := OrderColumn(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("OrderColumn(%q) error = %v", tt.in, err)
		}
		if err != nil && !errors.Is(err, ErrInvalidOrder) {
			t.Errorf("OrderColumn(%q) error does not match ErrInvalidOrder", tt.in)
		}
		if got != tt.want {
			t.Errorf("OrderColumn(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestViewName(t *testing.T) {
	t.Parallel()

	if v, _ := ViewName(models.RankingWeighted); v != "content_rankings" {
		t.Errorf("weighted view = %q", v)
	}
	if v, _ := ViewName(models.RankingConfirmed); v != "content_rankings_confirmed" {
		t.Errorf("confirmed view = %q", v)
	}
	if _, err := ViewName("bogus"); err == nil {
		t.Error("bogus mode accepted")
	}
}

func TestMemoryAggregates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()
	_ = m.InsertReaction(ctx, reaction("frog01", 0.8, boolPtr(true)))
	_ = m.InsertReaction(ctx, reaction("frog01", 0.4, boolPtr(false)))
	_ = m.InsertReaction(ctx, reaction("cat02", 0.2, nil))

	weighted, err := m.ListRankings(ctx, models.RankingWeighted, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(weighted) != 2 || weighted[0].ContentID != "frog01" || weighted[0].TotalReactions != 2 {
		t.Fatalf("weighted = %+v", weighted)
	}
	if math.Abs(weighted[0].AvgHappy-0.6) > 1e-9 {
		t.Errorf("frog01 avg_happy = %v, want 0.6", weighted[0].AvgHappy)
	}

	confirmed, err := m.ListRankings(ctx, models.RankingConfirmed, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(confirmed) != 1 || confirmed[0].TotalReactions != 1 || confirmed[0].AvgHappy != 0.8 {
		t.Errorf("confirmed = %+v", confirmed)
	}

	agg, err := m.GetRanking(ctx, models.RankingWeighted, "missing")
	if err != nil || agg != nil {
		t.Errorf("GetRanking(missing) = %+v, %v", agg, err)
	}
}

func TestMemoryTieBreak(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()
	for _, id := range []string{"zebra", "apple", "mango"} {
		_ = m.InsertReaction(ctx, reaction(id, 0.5, nil))
	}
	rows, _ := m.ListRankings(ctx, models.RankingWeighted, models.EmotionHappy)
	got := []string{rows[0].ContentID, rows[1].ContentID, rows[2].ContentID}
	want := []string{"apple", "mango", "zebra"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func breakerConfig() config.BreakerConfig {
	return config.BreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Hour,
		FailureThreshold: 3,
	}
}

func TestResilientTripsAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := NewMemory()
	boom := errors.New("connection refused")
	backend.FailWith(boom)

	r := NewResilient(backend, breakerConfig())
	for i := 0; i < 3; i++ {
		if err := r.InsertReaction(ctx, reaction("a", 0.1, nil)); !errors.Is(err, boom) {
			t.Fatalf("call %d: err = %v, want backend error", i, err)
		}
	}
	if r.State() != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open", r.State())
	}

	backend.FailWith(nil)
	err := r.InsertReaction(ctx, reaction("a", 0.1, nil))
	if !errors.Is(err, ErrUnavailable) || !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("open breaker err = %v, want ErrUnavailable", err)
	}
	if len(backend.Records()) != 0 {
		t.Error("open breaker let a write through")
	}

	// Ping reflects the backend, not the breaker.
	if err := r.Ping(ctx); err != nil {
		t.Errorf("Ping() = %v", err)
	}
}

func TestResilientIgnoresCanceledContext(t *testing.T) {
	t.Parallel()

	r := NewResilient(NewMemory(), breakerConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 5; i++ {
		if _, err := r.ListRankings(ctx, models.RankingWeighted, ""); !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v", err)
		}
	}
	if r.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, want closed", r.State())
	}
}

func TestResilientDisabledPassesThrough(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := NewMemory()
	r := NewResilient(backend, config.BreakerConfig{Enabled: false})

	if err := r.InsertReaction(ctx, reaction("frog01", 0.9, nil)); err != nil {
		t.Fatal(err)
	}
	agg, err := r.GetRanking(ctx, models.RankingWeighted, "frog01")
	if err != nil || agg == nil || agg.TotalReactions != 1 {
		t.Fatalf("GetRanking() = %+v, %v", agg, err)
	}
	missing, err := r.GetRanking(ctx, models.RankingWeighted, "nope")
	if err != nil || missing != nil {
		t.Errorf("GetRanking(nope) = %+v, %v", missing, err)
	}
	if r.Backend() != "memory" {
		t.Errorf("Backend() = %q", r.Backend())
	}
}
