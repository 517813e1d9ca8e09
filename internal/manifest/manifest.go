// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

// Package manifest loads, validates and generates the content manifest that
// lists every item the installation can show.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moodmirror/internal/models"
	"github.com/tomtom215/moodmirror/internal/validation"
)

// CurrentVersion is written by Generate.
const CurrentVersion = 1

// Load reads and validates a manifest file.
func Load(path string) (*models.ContentManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates manifest JSON. An empty item list is allowed;
// the rotation selector reports it as no content available.
func Parse(data []byte) (*models.ContentManifest, error) {
	var m models.ContentManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	if err := Validate(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks every item and rejects duplicate ids.
func Validate(m *models.ContentManifest) error {
	if verr := validation.ValidateStruct(m); verr != nil {
		return fmt.Errorf("invalid manifest: %w", verr)
	}
	seen := make(map[string]struct{}, len(m.Items))
	for i := range m.Items {
		id := m.Items[i].ID
		if _, dup := seen[id]; dup {
			return fmt.Errorf("invalid manifest: duplicate item id %q", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Write stores m as indented JSON, replacing path atomically.
func Write(path string, m *models.ContentManifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".manifest-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp manifest: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace manifest %s: %w", path, err)
	}
	return nil
}
