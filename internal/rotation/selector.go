// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

// Package rotation picks the next content item for a viewer without repeating
// any item until the whole manifest has been shown once.
package rotation

import (
	"errors"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/moodmirror/internal/models"
)

// ErrNoContentAvailable is returned when the manifest has no items. Callers
// fall back to an external content source.
var ErrNoContentAvailable = errors.New("no content available")

// ShownSet holds the ids already shown in the current exhaustion cycle.
type ShownSet map[string]struct{}

// NewShownSet builds a set from ids.
func NewShownSet(ids ...string) ShownSet {
	s := make(ShownSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id was shown this cycle.
func (s ShownSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the set members sorted, for persistence and JSON responses.
func (s ShownSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Selector chooses content uniformly among the items not yet shown.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector returns a Selector drawing from src. A nil src seeds a PCG
// generator from the clock.
func NewSelector(src rand.Source) *Selector {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>32|1)
	}
	return &Selector{rng: rand.New(src)}
}

// SelectNext returns the next item and the updated shown set. The input set
// is not modified. When every manifest item has been shown, a new cycle starts
// and ids unknown to the manifest are dropped.
func (s *Selector) SelectNext(m *models.ContentManifest, shown ShownSet) (models.ContentItem, ShownSet, error) {
	if m.Len() == 0 {
		return models.ContentItem{}, shown, ErrNoContentAvailable
	}

	available := make([]int, 0, m.Len())
	for i := range m.Items {
		if !shown.Has(m.Items[i].ID) {
			available = append(available, i)
		}
	}

	next := make(ShownSet, len(shown)+1)
	if len(available) == 0 {
		for i := range m.Items {
			available = append(available, i)
		}
	} else {
		for id := range shown {
			next[id] = struct{}{}
		}
	}

	s.mu.Lock()
	pick := available[s.rng.IntN(len(available))]
	s.mu.Unlock()

	item := m.Items[pick]
	next[item.ID] = struct{}{}
	return item, next, nil
}
