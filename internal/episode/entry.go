package episode

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Entry is one row of a collection: the identifiers parsed from a file plus
// the numbering assigned by the last renumber pass.
type Entry struct {
	// Path is empty for a placeholder row that has no backing file yet.
	Path          string
	Title         string
	Season        int
	ParsedEpisode int
	// Derived is the 1-based position assigned by Renumber.
	Derived int
	// ParseMisses holds marker text that could not be converted to a number.
	ParseMisses []string

	manual int
}

// NewEntry parses the identifiers of the file at path.
func NewEntry(path string) Entry {
	name := filepath.Base(path)
	ids := ParseIdentifiers(name)
	return Entry{
		Path:          path,
		Title:         ParseTitle(name),
		Season:        ids.Season,
		ParsedEpisode: ids.Episode,
		ParseMisses:   ids.Misses,
	}
}

// NewPlaceholder creates a row without a backing file.
func NewPlaceholder(season, episode int) Entry {
	return Entry{
		Title:         UnknownTitle,
		Season:        season,
		ParsedEpisode: episode,
	}
}

// IsPlaceholder reports whether the entry has no backing file.
func (e Entry) IsPlaceholder() bool {
	return strings.TrimSpace(e.Path) == ""
}

// Filename returns the base name of the backing file.
func (e Entry) Filename() string {
	if e.IsPlaceholder() {
		return ""
	}
	return filepath.Base(e.Path)
}

// Dir returns the directory holding the backing file.
func (e Entry) Dir() string {
	if e.IsPlaceholder() {
		return ""
	}
	return filepath.Dir(e.Path)
}

// Extension returns the file extension without the leading dot.
func (e Entry) Extension() string {
	return strings.TrimPrefix(extensionOf(e.Filename()), ".")
}

// ManualEpisode returns the user-pinned episode number, if any.
func (e Entry) ManualEpisode() (int, bool) {
	return e.manual, e.manual > 0
}

// HasManualEpisode reports whether the entry carries an override.
func (e Entry) HasManualEpisode() bool {
	return e.manual > 0
}

// WithManualEpisode returns a copy pinned to value. Values below 1 clear the pin.
func (e Entry) WithManualEpisode(value int) Entry {
	if value < 1 {
		value = 0
	}
	e.manual = value
	return e
}

// WithoutManualEpisode returns a copy with the override removed.
func (e Entry) WithoutManualEpisode() Entry {
	e.manual = 0
	return e
}

// Effective is the override when present, otherwise the parsed episode.
func (e Entry) Effective() int {
	if e.manual > 0 {
		return e.manual
	}
	return e.ParsedEpisode
}

// CanonicalName is the file name the entry should carry for its current
// season and derived position.
func (e Entry) CanonicalName() string {
	name := Label(e.Season, e.Derived)
	if ext := e.Extension(); ext != "" {
		name += "." + ext
	}
	return name
}

// Label formats a season and episode as S01E02.
func Label(season, episode int) string {
	return fmt.Sprintf("S%02dE%02d", season, episode)
}
