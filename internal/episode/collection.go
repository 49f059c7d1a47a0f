package episode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidOverride is returned when a manual episode assignment is rejected.
var ErrInvalidOverride = errors.New("invalid manual episode")

// Collection is a sorted and renumbered set of entries. The zero value is an
// empty collection using Less.
type Collection struct {
	entries []Entry
	less    LessFunc
}

// Option configures a Collection.
type Option func(*Collection)

// WithOrdering selects the relation used to sort entries.
func WithOrdering(less LessFunc) Option {
	return func(c *Collection) {
		if less != nil {
			c.less = less
		}
	}
}

// NewCollection sorts and renumbers entries.
func NewCollection(entries []Entry, opts ...Option) (Collection, error) {
	c := Collection{less: Less}
	for _, opt := range opts {
		opt(&c)
	}
	return c.rebuild(entries)
}

// FromPaths parses every path into an entry and builds a collection.
func FromPaths(paths []string, opts ...Option) (Collection, error) {
	entries := make([]Entry, 0, len(paths))
	for _, path := range paths {
		entries = append(entries, NewEntry(path))
	}
	return NewCollection(entries, opts...)
}

func (c Collection) rebuild(entries []Entry) (Collection, error) {
	less := c.less
	if less == nil {
		less = Less
	}
	renumbered, err := Renumber(Sort(entries, less))
	if err != nil {
		return c, err
	}
	return Collection{entries: renumbered, less: less}, nil
}

// Len returns the number of entries.
func (c Collection) Len() int {
	return len(c.entries)
}

// At returns the entry at row.
func (c Collection) At(row int) (Entry, bool) {
	if row < 0 || row >= len(c.entries) {
		return Entry{}, false
	}
	return c.entries[row], true
}

// Entries returns a copy of the entries in final order.
func (c Collection) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// SetManualEpisode pins the entry at row to value. The value must lie in
// 1..Len() and must not already be held by another entry. On rejection the
// receiver is returned unchanged together with an error wrapping
// ErrInvalidOverride.
func (c Collection) SetManualEpisode(row, value int) (Collection, error) {
	if row < 0 || row >= len(c.entries) {
		return c, fmt.Errorf("%w: row %d out of range", ErrInvalidOverride, row)
	}
	if value < 1 || value > len(c.entries) {
		return c, fmt.Errorf("%w: %d not in 1..%d", ErrInvalidOverride, value, len(c.entries))
	}
	for i, entry := range c.entries {
		if i == row {
			continue
		}
		if m, ok := entry.ManualEpisode(); ok && m == value {
			return c, fmt.Errorf("%w: episode %d already pinned by row %d", ErrInvalidOverride, value, i)
		}
	}

	entries := c.Entries()
	entries[row] = entries[row].WithManualEpisode(value)
	return c.rebuild(entries)
}

// SetManualEpisodeText accepts raw user input for SetManualEpisode.
func (c Collection) SetManualEpisodeText(row int, text string) (Collection, error) {
	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return c, fmt.Errorf("%w: %q is not a number", ErrInvalidOverride, text)
	}
	return c.SetManualEpisode(row, value)
}

// ClearManualEpisode removes the override of the entry at row.
func (c Collection) ClearManualEpisode(row int) (Collection, error) {
	if row < 0 || row >= len(c.entries) {
		return c, fmt.Errorf("%w: row %d out of range", ErrInvalidOverride, row)
	}
	if !c.entries[row].HasManualEpisode() {
		return c, nil
	}
	entries := c.Entries()
	entries[row] = entries[row].WithoutManualEpisode()
	return c.rebuild(entries)
}

// AddPlaceholder appends a row without a backing file.
func (c Collection) AddPlaceholder(season, episode int) (Collection, error) {
	entries := append(c.Entries(), NewPlaceholder(season, episode))
	return c.rebuild(entries)
}

// Find returns the row of the entry backed by path.
func (c Collection) Find(path string) (int, bool) {
	for i, entry := range c.entries {
		if !entry.IsPlaceholder() && entry.Path == path {
			return i, true
		}
	}
	return -1, false
}

// Replace rebuilds the collection from new entries, keeping the ordering.
func (c Collection) Replace(entries []Entry) (Collection, error) {
	return c.rebuild(entries)
}
