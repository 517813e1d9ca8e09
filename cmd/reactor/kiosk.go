// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package main

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/moodmirror/internal/manifest"
	"github.com/tomtom215/moodmirror/internal/models"
	"github.com/tomtom215/moodmirror/internal/rotation"
	"github.com/tomtom215/moodmirror/internal/session"
)

// shownKey holds the JSON array of ids shown in the current rotation cycle.
const shownKey = "moodmirror_shown_ids"

// kioskState is the kiosk's durable state directory.
type kioskState struct {
	db      *badger.DB
	storage *session.BadgerStorage
}

func openState(dir string) (*kioskState, error) {
	db, err := session.OpenBadger(dir)
	if err != nil {
		return nil, err
	}
	return &kioskState{db: db, storage: session.NewBadgerStorage(db)}, nil
}

func (k *kioskState) Close() error {
	return k.db.Close()
}

func (k *kioskState) sessionID(ctx context.Context) (string, error) {
	return session.NewManager(k.storage).GetOrCreate(ctx)
}

func (k *kioskState) shown(ctx context.Context) (rotation.ShownSet, error) {
	raw, ok, err := k.storage.Get(ctx, shownKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return rotation.NewShownSet(), nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		// A corrupt list only costs a rotation cycle.
		return rotation.NewShownSet(), nil
	}
	return rotation.NewShownSet(ids...), nil
}

func (k *kioskState) saveShown(ctx context.Context, ids []string) error {
	b, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return k.storage.Set(ctx, shownKey, string(b))
}

func sessionCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Print the kiosk session id, creating it on first use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := openState(g.stateDir)
			if err != nil {
				return err
			}
			defer state.Close()

			id, err := state.sessionID(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}
}

func nextCmd(g *globalFlags) *cobra.Command {
	var (
		manifestPath string
		remote       bool
		reset        bool
	)

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Pick the next content item to show",
		Long: `next picks a random item not yet shown in the current cycle and records it
in the state directory. Once every item has been shown the cycle starts over.
With --remote the server picks the item from its own manifest.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			state, err := openState(g.stateDir)
			if err != nil {
				return err
			}
			defer state.Close()

			shown := rotation.NewShownSet()
			if !reset {
				if shown, err = state.shown(ctx); err != nil {
					return err
				}
			}

			var (
				item models.ContentItem
				ids  []string
			)
			if remote {
				item, ids, err = g.client().Next(ctx, shown.IDs())
			} else {
				var m *models.ContentManifest
				if m, err = manifest.Load(manifestPath); err != nil {
					return err
				}
				var next rotation.ShownSet
				item, next, err = rotation.NewSelector(rand.NewPCG(rand.Uint64(), rand.Uint64())).SelectNext(m, shown)
				ids = next.IDs()
			}
			if err != nil {
				return err
			}

			if err := state.saveShown(ctx, ids); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), item)
		},
	}
	cmd.Flags().StringVar(&manifestPath, "manifest", "content-manifest.json", "Manifest file")
	cmd.Flags().BoolVar(&remote, "remote", false, "Ask the server instead of the local manifest")
	cmd.Flags().BoolVar(&reset, "reset", false, "Start a new rotation cycle")
	return cmd
}
