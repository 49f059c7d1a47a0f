package episode_test

import (
	"testing"

	"showtool/internal/episode"
)

func entry(season, ep int) episode.Entry {
	return episode.NewPlaceholder(season, ep)
}

func TestEqualRequiresSameOverridePresence(t *testing.T) {
	plain := entry(1, 3)
	pinned := entry(1, 7).WithManualEpisode(3)

	if episode.Equal(plain, pinned) {
		t.Fatal("entries differing in override presence must not be equal")
	}
	if !episode.Equal(plain, entry(1, 3)) {
		t.Fatal("identical unpinned entries should be equal")
	}
	if !episode.Equal(pinned, entry(1, 9).WithManualEpisode(3)) {
		t.Fatal("entries pinned to the same value should be equal")
	}
	if episode.Equal(entry(1, 3), entry(2, 3)) {
		t.Fatal("different seasons must not be equal")
	}
}

func TestLessPrefersUnpinnedOnTie(t *testing.T) {
	plain := entry(1, 3)
	pinned := entry(1, 1).WithManualEpisode(3)

	if !episode.Less(plain, pinned) {
		t.Fatal("unpinned entry should sort before pinned entry with equal effective episode")
	}
	if episode.Less(pinned, plain) {
		t.Fatal("pinned entry should not sort before unpinned on tie")
	}
}

func TestLessFallsThroughAcrossSeasons(t *testing.T) {
	later := entry(2, 1)
	earlier := entry(1, 5)

	if !episode.Less(earlier, later) {
		t.Fatal("lower season should sort first")
	}
	if !episode.Less(later, earlier) {
		t.Fatal("literal relation compares episodes alone when the season is higher")
	}
	if episode.SeasonFirstLess(later, earlier) {
		t.Fatal("season-first relation should keep seasons grouped")
	}
}

func TestCompare(t *testing.T) {
	if got := episode.Compare(entry(1, 1), entry(1, 2)); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
	if got := episode.Compare(entry(1, 2), entry(1, 2)); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := episode.Compare(entry(1, 3), entry(1, 2)); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}

func TestLessFuncFor(t *testing.T) {
	for _, name := range []string{"", "literal", "LITERAL", "season_first"} {
		if _, err := episode.LessFuncFor(name); err != nil {
			t.Fatalf("LessFuncFor(%q) returned error: %v", name, err)
		}
	}
	if _, err := episode.LessFuncFor("alphabetical"); err == nil {
		t.Fatal("expected error for unknown relation")
	}
}

func TestSortIsStableAndDoesNotMutateInput(t *testing.T) {
	input := []episode.Entry{entry(1, 2), entry(1, 1), entry(1, 2)}
	input[0].Title = "first"
	input[2].Title = "second"

	sorted := episode.Sort(input, nil)

	if sorted[0].ParsedEpisode != 1 || sorted[1].Title != "first" || sorted[2].Title != "second" {
		t.Fatalf("unexpected sort order: %+v", sorted)
	}
	if input[0].Title != "first" || input[1].ParsedEpisode != 1 {
		t.Fatal("input slice was modified")
	}
}
