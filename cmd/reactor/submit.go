// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/tomtom215/moodmirror/internal/ingest"
	"github.com/tomtom215/moodmirror/internal/logging"
	"github.com/tomtom215/moodmirror/internal/manifest"
	"github.com/tomtom215/moodmirror/internal/models"
)

// parseScores reads six comma separated scores in ScoreEmotions order.
func parseScores(s string) ([6]float64, error) {
	var out [6]float64
	parts := strings.Split(s, ",")
	if len(parts) != len(out) {
		return out, fmt.Errorf("expected %d scores, got %d", len(out), len(parts))
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return out, fmt.Errorf("score %s: %w", models.ScoreEmotions[i], err)
		}
		out[i] = v
	}
	return out, nil
}

// newPayload builds a submission. A nil confirmed means the viewer was not asked.
func newPayload(contentID, sessionID string, scores [6]float64, dominant models.Emotion, confirmed *bool) ingest.Payload {
	return ingest.Payload{
		ContentID:       contentID,
		SessionID:       sessionID,
		Happy:           scores[0],
		Sad:             scores[1],
		Angry:           scores[2],
		Disgusted:       scores[3],
		Fearful:         scores[4],
		Surprised:       scores[5],
		DominantEmotion: string(dominant),
		UserConfirmed:   confirmed,
	}
}

func submitCmd(g *globalFlags) *cobra.Command {
	var (
		contentID string
		scores    string
		dominant  string
		confirmed bool
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit one reaction with the kiosk session id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			values, err := parseScores(scores)
			if err != nil {
				return err
			}

			state, err := openState(g.stateDir)
			if err != nil {
				return err
			}
			sessionID, err := state.sessionID(ctx)
			state.Close()
			if err != nil {
				return err
			}

			var userConfirmed *bool
			if cmd.Flags().Changed("confirmed") {
				userConfirmed = &confirmed
			}

			p := newPayload(contentID, sessionID, values, models.Emotion(dominant), userConfirmed)
			if err := g.client().Submit(ctx, p); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Submitted %s reaction for %s\n", dominant, contentID)
			return err
		},
	}
	cmd.Flags().StringVar(&contentID, "content", "", "Content id")
	cmd.Flags().StringVar(&scores, "scores", "", "happy,sad,angry,disgusted,fearful,surprised")
	cmd.Flags().StringVar(&dominant, "dominant", "", "Dominant emotion, or unsure")
	cmd.Flags().BoolVar(&confirmed, "confirmed", false, "Viewer's answer to the confirmation prompt; omit when they were not asked")
	_ = cmd.MarkFlagRequired("content")
	_ = cmd.MarkFlagRequired("scores")
	_ = cmd.MarkFlagRequired("dominant")
	return cmd
}

// simulateResult tallies a simulate run.
type simulateResult struct {
	Accepted    int `json:"accepted"`
	RateLimited int `json:"rate_limited"`
	Rejected    int `json:"rejected"`
	Errors      int `json:"errors"`
}

// randomReaction draws scores and names the highest one dominant.
func randomReaction(r *rand.Rand) ([6]float64, models.Emotion) {
	var scores [6]float64
	best := 0
	for i := range scores {
		scores[i] = float64(r.IntN(1001)) / 1000
		if scores[i] > scores[best] {
			best = i
		}
	}
	return scores, models.ScoreEmotions[best]
}

// randomConfirmation answers yes, no, or leaves the viewer unasked.
func randomConfirmation(r *rand.Rand) *bool {
	switch r.IntN(3) {
	case 0:
		return nil
	case 1:
		v := true
		return &v
	default:
		v := false
		return &v
	}
}

func simulateCmd(g *globalFlags) *cobra.Command {
	var (
		manifestPath string
		count        int
		perSecond    float64
		seed         uint64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Submit random reactions to exercise a server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if perSecond <= 0 {
				return fmt.Errorf("--rate must be positive, got %v", perSecond)
			}
			ctx := cmd.Context()
			m, err := manifest.Load(manifestPath)
			if err != nil {
				return err
			}
			if m.Len() == 0 {
				return errors.New("manifest has no items")
			}
			if seed == 0 {
				seed = rand.Uint64()
			}
			r := rand.New(rand.NewPCG(seed, seed))
			limiter := rate.NewLimiter(rate.Limit(perSecond), 1)
			c := g.client()
			sessionID := fmt.Sprintf("simulate-%d", seed)
			log := logging.WithComponent("simulate")

			var res simulateResult
			for i := 0; i < count; i++ {
				if err := limiter.Wait(ctx); err != nil {
					return err
				}
				item := m.Items[r.IntN(len(m.Items))]
				scores, dominant := randomReaction(r)
				err := c.Submit(ctx, newPayload(item.ID, sessionID, scores, dominant, randomConfirmation(r)))
				switch {
				case err == nil:
					res.Accepted++
				case errors.Is(err, ingest.ErrRateLimited):
					res.RateLimited++
				case errors.Is(err, ingest.ErrInvalidField), errors.Is(err, ingest.ErrInvalidPayload):
					res.Rejected++
					log.Warn().Err(err).Str("content_id", item.ID).Msg("Reaction rejected")
				default:
					res.Errors++
					log.Error().Err(err).Str("content_id", item.ID).Msg("Reaction failed")
				}
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&manifestPath, "manifest", "content-manifest.json", "Manifest file to draw content ids from")
	cmd.Flags().IntVar(&count, "count", 20, "Reactions to submit")
	cmd.Flags().Float64Var(&perSecond, "rate", 2, "Submissions per second")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (0 picks one)")
	return cmd
}
