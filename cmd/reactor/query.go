// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tomtom215/moodmirror/internal/models"
	"github.com/tomtom215/moodmirror/internal/rankings"
)

func rankCmd(g *globalFlags) *cobra.Command {
	var contentID, emotion string

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Show how a content item ranks for an emotion",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := g.client().Rank(cmd.Context(), contentID, models.Emotion(emotion))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&contentID, "content", "", "Content id")
	cmd.Flags().StringVar(&emotion, "emotion", "", "Emotion to rank by")
	_ = cmd.MarkFlagRequired("content")
	_ = cmd.MarkFlagRequired("emotion")
	return cmd
}

func rankingsCmd(g *globalFlags) *cobra.Command {
	var mode, sort string
	var asJSON, cycle bool

	cmd := &cobra.Command{
		Use:   "rankings",
		Short: "Print the rankings dashboard",
		Long: `Print the rankings dashboard.

With --cycle every dashboard filter is printed in turn, starting from "all"
and following the same order as the kiosk's filter button.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := g.client()
			if !cycle {
				entries, err := c.Rankings(cmd.Context(), models.RankingMode(mode), sort)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), entries)
				}
				return printRankings(cmd.OutOrStdout(), entries)
			}

			var pages []filterPage
			filter := rankings.FilterAll
			for {
				entries, err := c.Rankings(cmd.Context(), models.RankingMode(mode), filter)
				if err != nil {
					return fmt.Errorf("rankings %s: %w", filter, err)
				}
				pages = append(pages, filterPage{Filter: filter, Entries: entries})
				if filter = rankings.NextFilter(filter); filter == rankings.FilterAll {
					break
				}
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), pages)
			}
			for i, p := range pages {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "== %s ==\n", p.Filter)
				if err := printRankings(cmd.OutOrStdout(), p.Entries); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "weighted or confirmed")
	cmd.Flags().StringVar(&sort, "sort", "", "all or an emotion")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	cmd.Flags().BoolVar(&cycle, "cycle", false, "Print every dashboard filter in turn")
	cmd.MarkFlagsMutuallyExclusive("sort", "cycle")
	return cmd
}

type filterPage struct {
	Filter  string                  `json:"filter"`
	Entries []models.DashboardEntry `json:"entries"`
}

func printRankings(w io.Writer, entries []models.DashboardEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tCONTENT\tREACTIONS\tHAPPY\tSAD\tANGRY\tDISGUSTED\tFEARFUL\tSURPRISED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n",
			e.Rank, e.ContentID, e.TotalReactions,
			e.AvgHappy, e.AvgSad, e.AvgAngry, e.AvgDisgusted, e.AvgFearful, e.AvgSurprised)
	}
	return tw.Flush()
}
