// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

// Package models holds the data types shared across MoodMirror: emotions,
// content items and manifests, stored reactions, and ranking aggregates.
//
// Types here carry JSON and validation tags but no behavior beyond small
// lookups; persistence lives in store, database and supabase.
package models
