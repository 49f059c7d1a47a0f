package episode

import (
	"fmt"
	"sort"
	"strings"
)

// LessFunc orders two entries for sorting.
type LessFunc func(a, b Entry) bool

// Relation names accepted by LessFuncFor.
const (
	RelationLiteral     = "literal"
	RelationSeasonFirst = "season_first"
)

// Equal reports whether a and b share season and effective episode and either
// both or neither carry an override.
func Equal(a, b Entry) bool {
	if a.Season != b.Season {
		return false
	}
	if a.Effective() != b.Effective() {
		return false
	}
	return a.HasManualEpisode() == b.HasManualEpisode()
}

// Less is the default ordering. A lower season sorts first. Otherwise equal
// effective episodes put the unpinned entry first, and differing ones compare
// by effective episode alone. The season is not re-checked in that last
// branch, so a higher season with a lower episode still sorts first; callers
// that need a strict season grouping use SeasonFirstLess.
func Less(a, b Entry) bool {
	if a.Season < b.Season {
		return true
	}
	if a.Effective() == b.Effective() {
		return !a.HasManualEpisode() && b.HasManualEpisode()
	}
	return a.Effective() < b.Effective()
}

// SeasonFirstLess groups by season before comparing episodes.
func SeasonFirstLess(a, b Entry) bool {
	if a.Season != b.Season {
		return a.Season < b.Season
	}
	return Less(a, b)
}

// Compare returns -1 when a sorts before b, 0 when they are Equal and +1 otherwise.
func Compare(a, b Entry) int {
	switch {
	case Less(a, b):
		return -1
	case Equal(a, b):
		return 0
	default:
		return 1
	}
}

// LessFuncFor resolves a configured relation name.
func LessFuncFor(name string) (LessFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", RelationLiteral:
		return Less, nil
	case RelationSeasonFirst:
		return SeasonFirstLess, nil
	default:
		return nil, fmt.Errorf("unknown ordering relation %q", name)
	}
}

// Sort returns a stably sorted copy of entries.
func Sort(entries []Entry, less LessFunc) []Entry {
	if less == nil {
		less = Less
	}
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}
