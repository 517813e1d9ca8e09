// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

/*
Package database implements the embedded reaction store on DuckDB or SQLite.

Both drivers share one schema: a reactions table with CHECK constraints on
every score and two ranking views, content_rankings over all reactions and
content_rankings_confirmed over those the viewer confirmed.

	db, err := database.New(&cfg.Database, database.DriverDuckDB)
	if err != nil {
		return err
	}
	defer db.Close()

	err = db.InsertReaction(ctx, &rec)
	rows, err := db.ListRankings(ctx, models.RankingWeighted, models.EmotionHappy)

DuckDB is the default backend. SQLite (modernc.org/sqlite, no CGO) suits
small kiosks and cross-compiled builds. Checkpoint flushes the WAL and is
run periodically by the supervisor.
*/
package database
