// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

// Command reactor is the kiosk-side companion to the MoodMirror server. It
// maintains the content manifest, keeps the kiosk's session and rotation
// state, submits reactions and reads rankings.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/moodmirror/internal/client"
	"github.com/tomtom215/moodmirror/internal/logging"
)

const defaultServer = "http://localhost:8080"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	server   string
	stateDir string
	logLevel string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "reactor",
		Short: "MoodMirror kiosk tool",
		Long: `reactor manages a MoodMirror kiosk: it generates the content manifest,
keeps the kiosk session id and rotation state in a local Badger directory,
submits reactions and reads rankings from a MoodMirror server.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Init(logging.Config{Level: g.logLevel, Format: "console"})
		},
	}

	server := os.Getenv("MOODMIRROR_SERVER")
	if server == "" {
		server = defaultServer
	}
	cmd.PersistentFlags().StringVar(&g.server, "server", server, "MoodMirror server URL (env MOODMIRROR_SERVER)")
	cmd.PersistentFlags().StringVar(&g.stateDir, "state", ".moodmirror", "Kiosk state directory")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		manifestCmd(),
		sessionCmd(g),
		nextCmd(g),
		submitCmd(g),
		rankCmd(g),
		rankingsCmd(g),
		simulateCmd(g),
		schemaCmd(),
	)
	return cmd
}

func (g *globalFlags) client() *client.Client {
	return client.New(g.server)
}

func printJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
