// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/moodmirror/internal/supabase"
)

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the Supabase schema for the reactions table and views",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), supabase.Schema())
			return err
		},
	}
}
