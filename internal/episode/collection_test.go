package episode_test

import (
	"errors"
	"reflect"
	"testing"

	"showtool/internal/episode"
)

func parsedOrder(c episode.Collection) []int {
	var out []int
	for _, e := range c.Entries() {
		out = append(out, e.ParsedEpisode)
	}
	return out
}

func TestFromPathsSortsAndRenumbers(t *testing.T) {
	c, err := episode.FromPaths([]string{"/tv/S01E03.mkv", "/tv/S01E01.mkv", "/tv/S01E02.mkv"})
	if err != nil {
		t.Fatalf("FromPaths returned error: %v", err)
	}
	if got := parsedOrder(c); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("expected parsed order [1 2 3], got %v", got)
	}
	if got := derivedOf(c.Entries()); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("expected derived [1 2 3], got %v", got)
	}
}

func TestSetManualEpisodePlacesEntry(t *testing.T) {
	c, err := episode.FromPaths([]string{"/tv/S01E03.mkv", "/tv/S01E01.mkv", "/tv/S01E02.mkv"})
	if err != nil {
		t.Fatalf("FromPaths returned error: %v", err)
	}
	row, ok := c.Find("/tv/S01E01.mkv")
	if !ok {
		t.Fatal("expected to find episode 1")
	}

	updated, err := c.SetManualEpisode(row, 3)
	if err != nil {
		t.Fatalf("SetManualEpisode returned error: %v", err)
	}

	if got := parsedOrder(updated); !reflect.DeepEqual(got, []int{2, 3, 1}) {
		t.Fatalf("expected parsed order [2 3 1], got %v", got)
	}
	pinnedRow, _ := updated.Find("/tv/S01E01.mkv")
	pinned, _ := updated.At(pinnedRow)
	if pinned.Derived != 3 {
		t.Fatalf("expected pinned entry derived 3, got %d", pinned.Derived)
	}
	if m, ok := pinned.ManualEpisode(); !ok || m != 3 {
		t.Fatalf("expected manual episode 3, got %d (%v)", m, ok)
	}
	if got := parsedOrder(c); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("original collection changed: %v", got)
	}
}

func TestSetManualEpisodeRejectsOutOfRange(t *testing.T) {
	c, err := episode.FromPaths([]string{"/tv/S01E01.mkv", "/tv/S01E02.mkv", "/tv/S01E03.mkv"})
	if err != nil {
		t.Fatalf("FromPaths returned error: %v", err)
	}
	before := c.Entries()

	for _, value := range []int{0, -1, c.Len() + 1} {
		got, err := c.SetManualEpisode(0, value)
		if !errors.Is(err, episode.ErrInvalidOverride) {
			t.Fatalf("value %d: expected ErrInvalidOverride, got %v", value, err)
		}
		if !reflect.DeepEqual(got.Entries(), before) {
			t.Fatalf("value %d: collection changed after rejection", value)
		}
	}
	if _, err := c.SetManualEpisode(5, 1); !errors.Is(err, episode.ErrInvalidOverride) {
		t.Fatalf("expected row range error, got %v", err)
	}
}

func TestSetManualEpisodeRejectsDuplicate(t *testing.T) {
	c, err := episode.FromPaths([]string{"/tv/S01E01.mkv", "/tv/S01E02.mkv", "/tv/S01E03.mkv"})
	if err != nil {
		t.Fatalf("FromPaths returned error: %v", err)
	}
	c, err = c.SetManualEpisode(0, 2)
	if err != nil {
		t.Fatalf("SetManualEpisode returned error: %v", err)
	}
	row, _ := c.Find("/tv/S01E03.mkv")
	if _, err := c.SetManualEpisode(row, 2); !errors.Is(err, episode.ErrInvalidOverride) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}

	pinnedRow, _ := c.Find("/tv/S01E01.mkv")
	if _, err := c.SetManualEpisode(pinnedRow, 2); err != nil {
		t.Fatalf("re-pinning the same row should succeed, got %v", err)
	}
}

func TestSetManualEpisodeText(t *testing.T) {
	c, err := episode.FromPaths([]string{"/tv/S01E01.mkv", "/tv/S01E02.mkv"})
	if err != nil {
		t.Fatalf("FromPaths returned error: %v", err)
	}
	if _, err := c.SetManualEpisodeText(0, "two"); !errors.Is(err, episode.ErrInvalidOverride) {
		t.Fatalf("expected rejection of non-numeric input, got %v", err)
	}
	updated, err := c.SetManualEpisodeText(0, " 2 ")
	if err != nil {
		t.Fatalf("SetManualEpisodeText returned error: %v", err)
	}
	if got := parsedOrder(updated); !reflect.DeepEqual(got, []int{2, 1}) {
		t.Fatalf("expected parsed order [2 1], got %v", got)
	}
}

func TestClearManualEpisode(t *testing.T) {
	c, err := episode.FromPaths([]string{"/tv/S01E01.mkv", "/tv/S01E02.mkv"})
	if err != nil {
		t.Fatalf("FromPaths returned error: %v", err)
	}
	pinned, err := c.SetManualEpisode(0, 2)
	if err != nil {
		t.Fatalf("SetManualEpisode returned error: %v", err)
	}
	row, _ := pinned.Find("/tv/S01E01.mkv")
	cleared, err := pinned.ClearManualEpisode(row)
	if err != nil {
		t.Fatalf("ClearManualEpisode returned error: %v", err)
	}
	if got := parsedOrder(cleared); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("expected parsed order [1 2], got %v", got)
	}
}

func TestAddPlaceholder(t *testing.T) {
	c, err := episode.FromPaths([]string{"/tv/S01E01.mkv", "/tv/S01E03.mkv"})
	if err != nil {
		t.Fatalf("FromPaths returned error: %v", err)
	}
	c, err = c.AddPlaceholder(1, 2)
	if err != nil {
		t.Fatalf("AddPlaceholder returned error: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", c.Len())
	}
	middle, _ := c.At(1)
	if !middle.IsPlaceholder() || middle.Derived != 2 {
		t.Fatalf("expected placeholder at derived 2, got %+v", middle)
	}
}

func TestWithOrderingSeasonFirst(t *testing.T) {
	paths := []string{"/tv/S02E01.mkv", "/tv/S01E05.mkv"}
	c, err := episode.FromPaths(paths, episode.WithOrdering(episode.SeasonFirstLess))
	if err != nil {
		t.Fatalf("FromPaths returned error: %v", err)
	}
	first, _ := c.At(0)
	if first.Season != 1 {
		t.Fatalf("expected season 1 first, got %+v", first)
	}
}

func TestEntryCanonicalName(t *testing.T) {
	c, err := episode.FromPaths([]string{"/tv/Show s1e9.MKV"})
	if err != nil {
		t.Fatalf("FromPaths returned error: %v", err)
	}
	e, _ := c.At(0)
	if got := e.CanonicalName(); got != "S01E01.MKV" {
		t.Fatalf("CanonicalName() = %q", got)
	}
}

func TestEntryWithoutExtensionKeepsMarkersInName(t *testing.T) {
	e := episode.NewEntry("/tv/Show.S01E02")
	if e.Extension() != "" {
		t.Fatalf("Extension() = %q, want none", e.Extension())
	}
	if e.Title != "Show" {
		t.Fatalf("Title = %q", e.Title)
	}

	c, err := episode.NewCollection([]episode.Entry{e})
	if err != nil {
		t.Fatalf("NewCollection returned error: %v", err)
	}
	got, _ := c.At(0)
	if name := got.CanonicalName(); name != "S01E01" {
		t.Fatalf("CanonicalName() = %q, want S01E01", name)
	}
}
