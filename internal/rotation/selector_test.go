// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package rotation

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/tomtom215/moodmirror/internal/models"
)

func manifestOf(n int) *models.ContentManifest {
	m := &models.ContentManifest{Version: 1}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("item%02d", i)
		m.Items = append(m.Items, models.ContentItem{ID: id, Filename: id + ".png", Type: models.ContentTypeImage})
	}
	return m
}

func TestSelectNextExhaustsBeforeRepeating(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 2, 5, 17} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			sel := NewSelector(rand.NewPCG(uint64(n), 7))
			m := manifestOf(n)

			var shown ShownSet
			seen := make(map[string]bool)
			for i := 0; i < n; i++ {
				item, next, err := sel.SelectNext(m, shown)
				if err != nil {
					t.Fatalf("SelectNext() error = %v", err)
				}
				if seen[item.ID] {
					t.Fatalf("call %d repeated %s within a cycle", i+1, item.ID)
				}
				seen[item.ID] = true
				shown = next
			}
			if len(shown) != n {
				t.Fatalf("shown has %d ids after full cycle, want %d", len(shown), n)
			}

			// The (N+1)th call starts a new cycle.
			item, next, err := sel.SelectNext(m, shown)
			if err != nil {
				t.Fatal(err)
			}
			if len(next) != 1 || !next.Has(item.ID) {
				t.Errorf("new cycle shown = %v, want only %s", next.IDs(), item.ID)
			}
		})
	}
}

func TestSelectNextEmptyManifest(t *testing.T) {
	t.Parallel()

	sel := NewSelector(nil)
	for _, m := range []*models.ContentManifest{nil, {Version: 1}} {
		if _, _, err := sel.SelectNext(m, nil); !errors.Is(err, ErrNoContentAvailable) {
			t.Errorf("SelectNext() error = %v, want ErrNoContentAvailable", err)
		}
	}
}

func TestSelectNextDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	sel := NewSelector(rand.NewPCG(1, 2))
	shown := NewShownSet("item00")
	_, next, err := sel.SelectNext(manifestOf(3), shown)
	if err != nil {
		t.Fatal(err)
	}
	if len(shown) != 1 {
		t.Errorf("input set mutated: %v", shown.IDs())
	}
	if len(next) != 2 || !next.Has("item00") {
		t.Errorf("next = %v", next.IDs())
	}
}

func TestSelectNextIgnoresUnknownIDs(t *testing.T) {
	t.Parallel()

	sel := NewSelector(rand.NewPCG(3, 4))
	m := manifestOf(2)
	shown := NewShownSet("item00", "item01", "retired")

	_, next, err := sel.SelectNext(m, shown)
	if err != nil {
		t.Fatal(err)
	}
	if next.Has("retired") || len(next) != 1 {
		t.Errorf("reset cycle kept stale ids: %v", next.IDs())
	}
}

// The last two unshown items must be equally likely regardless of history.
func TestSelectNextUniformOverAvailable(t *testing.T) {
	t.Parallel()

	sel := NewSelector(rand.NewPCG(42, 99))
	m := manifestOf(10)
	shown := NewShownSet("item00", "item01", "item02", "item03", "item04", "item05", "item06", "item07")

	counts := map[string]int{}
	const trials = 4000
	for i := 0; i < trials; i++ {
		item, _, err := sel.SelectNext(m, shown)
		if err != nil {
			t.Fatal(err)
		}
		counts[item.ID]++
	}

	if len(counts) != 2 {
		t.Fatalf("picked %v, want only item08 and item09", counts)
	}
	for id, c := range counts {
		if c < trials*4/10 || c > trials*6/10 {
			t.Errorf("%s picked %d/%d times, want roughly half", id, c, trials)
		}
	}
}

func TestShownSetIDsSorted(t *testing.T) {
	t.Parallel()

	got := NewShownSet("b", "c", "a").IDs()
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("IDs() = %v", got)
	}
}
