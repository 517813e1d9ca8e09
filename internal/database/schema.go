// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package database

import (
	"context"
	"fmt"
	"strings"
)

// createSchema creates the reactions table, its index and both ranking views.
func (db *DB) createSchema(ctx context.Context) error {
	for _, q := range db.schemaQueries() {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", firstLine(q), err)
		}
	}
	return nil
}

func (db *DB) schemaQueries() []string {
	idType, realType := "UUID", "DOUBLE"
	if db.driver == DriverSQLite {
		idType, realType = "TEXT", "REAL"
	}

	score := func(name string) string {
		return fmt.Sprintf("%s %s NOT NULL CHECK (%s >= 0 AND %s <= 1)", name, realType, name, name)
	}

	return []string{
		`CREATE TABLE IF NOT EXISTS reactions (
			id ` + idType + ` PRIMARY KEY,
			content_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			` + score("happy") + `,
			` + score("sad") + `,
			` + score("angry") + `,
			` + score("disgusted") + `,
			` + score("fearful") + `,
			` + score("surprised") + `,
			dominant_emotion TEXT NOT NULL,
			user_confirmed BOOLEAN,
			received_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reactions_content_id ON reactions(content_id)`,
		rankingView("content_rankings", ""),
		rankingView("content_rankings_confirmed", "WHERE user_confirmed = true"),
	}
}

func rankingView(name, where string) string {
	return `CREATE VIEW IF NOT EXISTS ` + name + ` AS
		SELECT
			content_id,
			AVG(happy) AS avg_happy,
			AVG(sad) AS avg_sad,
			AVG(angry) AS avg_angry,
			AVG(disgusted) AS avg_disgusted,
			AVG(fearful) AS avg_fearful,
			AVG(surprised) AS avg_surprised,
			COUNT(*) AS total_reactions
		FROM reactions
		` + where + `
		GROUP BY content_id`
}

func firstLine(q string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(q), "\n")
	return line
}
