package episode_test

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"showtool/internal/episode"
)

func derivedOf(entries []episode.Entry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Derived
	}
	return out
}

func TestRenumberIsPermutation(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for n := 0; n <= 25; n++ {
		entries := make([]episode.Entry, n)
		for i := range entries {
			entries[i] = entry(1+rng.IntN(3), rng.IntN(10)-1)
		}
		result, err := episode.Renumber(episode.Sort(entries, episode.Less))
		if err != nil {
			t.Fatalf("n=%d: Renumber returned error: %v", n, err)
		}
		seen := make(map[int]bool, n)
		for _, d := range derivedOf(result) {
			if d < 1 || d > n || seen[d] {
				t.Fatalf("n=%d: derived values %v are not a permutation", n, derivedOf(result))
			}
			seen[d] = true
		}
		if len(seen) != n {
			t.Fatalf("n=%d: expected %d distinct values, got %d", n, n, len(seen))
		}
	}
}

func TestRenumberPlacesOverrides(t *testing.T) {
	sorted := []episode.Entry{
		entry(1, 1),
		entry(1, 2).WithManualEpisode(1),
		entry(1, 3),
		entry(1, 4),
	}
	sorted[0].Title = "a"
	sorted[1].Title = "pinned"
	sorted[2].Title = "c"
	sorted[3].Title = "d"

	result, err := episode.Renumber(sorted)
	if err != nil {
		t.Fatalf("Renumber returned error: %v", err)
	}
	var titles []string
	for _, e := range result {
		titles = append(titles, e.Title)
	}
	if got := fmt.Sprint(titles); got != "[pinned a c d]" {
		t.Fatalf("unexpected order %s", got)
	}
	if got := fmt.Sprint(derivedOf(result)); got != "[1 2 3 4]" {
		t.Fatalf("unexpected derived values %s", got)
	}
}

func TestRenumberRejectsBadOverrides(t *testing.T) {
	_, err := episode.Renumber([]episode.Entry{entry(1, 1).WithManualEpisode(3), entry(1, 2)})
	if !errors.Is(err, episode.ErrOverrideOutOfRange) {
		t.Fatalf("expected ErrOverrideOutOfRange, got %v", err)
	}

	_, err = episode.Renumber([]episode.Entry{
		entry(1, 1).WithManualEpisode(2),
		entry(1, 2).WithManualEpisode(2),
		entry(1, 3),
	})
	if !errors.Is(err, episode.ErrDuplicateOverride) {
		t.Fatalf("expected ErrDuplicateOverride, got %v", err)
	}
}

func TestRenumberEmpty(t *testing.T) {
	result, err := episode.Renumber(nil)
	if err != nil || len(result) != 0 {
		t.Fatalf("expected empty result, got %v, %v", result, err)
	}
}
