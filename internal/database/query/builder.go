// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

// Package query builds the parameterized SQL used against the ranking views.
package query

import (
	"fmt"
	"strings"
)

// RankingColumns is the projection shared by both aggregate views.
const RankingColumns = "content_id, avg_happy, avg_sad, avg_angry, avg_disgusted, avg_fearful, avg_surprised, total_reactions"

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
//	wb := query.NewWhereBuilder()
//	wb.AddClause("content_id = ?", "frog01")
//	where, args := wb.Build()
//	// WHERE content_id = ?
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates an empty WhereBuilder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{}
}

// AddClause adds a raw condition with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// Build returns the WHERE clause (empty when no conditions) and its arguments.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(wb.clauses, " AND "), wb.args
}

// SelectRankings renders a SELECT over a ranking view. view and orderColumn
// are interpolated and must come from a whitelist; an empty orderColumn
// leaves the rows unordered.
func SelectRankings(view string, wb *WhereBuilder, orderColumn string) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(RankingColumns)
	sb.WriteString(" FROM ")
	sb.WriteString(view)

	var args []interface{}
	if wb != nil {
		where, whereArgs := wb.Build()
		if where != "" {
			sb.WriteString(" ")
			sb.WriteString(where)
			args = whereArgs
		}
	}
	if orderColumn != "" {
		fmt.Fprintf(&sb, " ORDER BY %s DESC, content_id ASC", orderColumn)
	}
	return sb.String(), args
}
