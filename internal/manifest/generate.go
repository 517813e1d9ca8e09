// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/moodmirror/internal/models"
)

// contentExtensions maps recognized file extensions to their content type.
var contentExtensions = map[string]models.ContentType{
	".gif":  models.ContentTypeAnimated,
	".jpg":  models.ContentTypeImage,
	".jpeg": models.ContentTypeImage,
	".png":  models.ContentTypeImage,
	".webp": models.ContentTypeImage,
}

// Report summarizes a Generate run.
type Report struct {
	Added   []string
	Kept    []string
	Removed []string
}

func (r Report) String() string {
	return fmt.Sprintf("%d added, %d kept, %d removed", len(r.Added), len(r.Kept), len(r.Removed))
}

// Generate scans dir for content files and builds a fresh manifest.
//
// Items are sorted by filename. The id is the lower-cased base name without
// extension. Items already present in existing keep their added date and tags;
// new items are dated now. Ids in existing without a file are reported as removed.
func Generate(dir string, existing *models.ContentManifest, now time.Time) (*models.ContentManifest, Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, Report{}, fmt.Errorf("failed to read content directory %s: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := contentExtensions[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	today := now.UTC().Format("2006-01-02")
	out := &models.ContentManifest{
		Version:   CurrentVersion,
		Generated: now.UTC(),
		Items:     make([]models.ContentItem, 0, len(files)),
	}

	var report Report
	seen := make(map[string]string, len(files))
	for _, name := range files {
		ext := filepath.Ext(name)
		id := strings.ToLower(strings.TrimSuffix(name, ext))
		if other, dup := seen[id]; dup {
			return nil, Report{}, fmt.Errorf("files %q and %q share id %q", other, name, id)
		}
		seen[id] = name

		item := models.ContentItem{
			ID:       id,
			Filename: name,
			Type:     contentExtensions[strings.ToLower(ext)],
			Added:    today,
			Tags:     []string{},
		}
		if prev, ok := existing.Lookup(id); ok {
			if prev.Added != "" {
				item.Added = prev.Added
			}
			if prev.Tags != nil {
				item.Tags = prev.Tags
			}
			report.Kept = append(report.Kept, id)
		} else {
			report.Added = append(report.Added, id)
		}
		out.Items = append(out.Items, item)
	}

	for _, id := range existing.IDs() {
		if _, ok := seen[id]; !ok {
			report.Removed = append(report.Removed, id)
		}
	}

	return out, report, nil
}
