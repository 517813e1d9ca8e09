// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// ContentType distinguishes still images from animated content.
type ContentType string

const (
	ContentTypeImage    ContentType = "image"
	ContentTypeAnimated ContentType = "animated"

	// contentTypeGIF is the label older manifests use for animated items.
	contentTypeGIF ContentType = "gif"
)

// UnmarshalJSON accepts the legacy "gif" label as animated content.
func (t *ContentType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ContentType(s)
	if *t == contentTypeGIF {
		*t = ContentTypeAnimated
	}
	return nil
}

// ContentItem is one piece of content shown to a viewer. Items are immutable
// once published in a manifest.
type ContentItem struct {
	ID       string      `json:"id" validate:"required,max=200"`
	Filename string      `json:"filename" validate:"required"`
	Type     ContentType `json:"type" validate:"required,oneof=image animated"`
	Added    string      `json:"added" validate:"omitempty,datetime=2006-01-02"`
	Tags     []string    `json:"tags"`
}

// ContentManifest is the ordered catalog of content loaded at startup.
type ContentManifest struct {
	Version   int           `json:"version"`
	Generated time.Time     `json:"generated"`
	Items     []ContentItem `json:"items" validate:"dive"`
}

// Len returns the number of items; a nil manifest is empty.
func (m *ContentManifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Items)
}

// Lookup returns the item with the given id.
func (m *ContentManifest) Lookup(id string) (ContentItem, bool) {
	if m == nil {
		return ContentItem{}, false
	}
	for i := range m.Items {
		if m.Items[i].ID == id {
			return m.Items[i], true
		}
	}
	return ContentItem{}, false
}

// Contains reports whether id is listed in the manifest.
func (m *ContentManifest) Contains(id string) bool {
	_, ok := m.Lookup(id)
	return ok
}

// IDs returns the item ids in manifest order.
func (m *ContentManifest) IDs() []string {
	if m == nil {
		return nil
	}
	ids := make([]string, 0, len(m.Items))
	for i := range m.Items {
		ids = append(ids, m.Items[i].ID)
	}
	return ids
}
