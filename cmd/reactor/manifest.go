// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/moodmirror/internal/logging"
	"github.com/tomtom215/moodmirror/internal/manifest"
	"github.com/tomtom215/moodmirror/internal/models"
)

func manifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Generate or inspect the content manifest",
	}
	cmd.AddCommand(manifestGenerateCmd(), manifestShowCmd())
	return cmd
}

func manifestGenerateCmd() *cobra.Command {
	var dir, out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Scan a content directory and write the manifest",
		Long: `generate scans --dir for .gif .jpg .jpeg .png and .webp files and writes
the manifest to --out. Items already in an existing manifest keep their
added date and tags.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var existing *models.ContentManifest
			m, err := manifest.Load(out)
			switch {
			case err == nil:
				existing = m
			case errors.Is(err, fs.ErrNotExist):
			default:
				logging.Warn().Err(err).Str("path", out).Msg("Existing manifest unreadable, starting fresh")
			}

			generated, report, err := manifest.Generate(dir, existing, time.Now())
			if err != nil {
				return err
			}
			if err := manifest.Write(out, generated); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %d items (%s)\n", out, generated.Len(), report)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "content", "Content directory")
	cmd.Flags().StringVar(&out, "out", "content-manifest.json", "Manifest file to write")
	return cmd
}

func manifestShowCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a manifest after validating it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := manifest.Load(path)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), m)
		},
	}
	cmd.Flags().StringVar(&path, "manifest", "content-manifest.json", "Manifest file")
	return cmd
}
