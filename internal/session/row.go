package session

import (
	"strconv"

	"showtool/internal/episode"
)

// Row is the display tuple of one collection entry.
type Row struct {
	Index         int
	Path          string
	Filename      string
	Title         string
	Season        int
	ParsedEpisode int
	Derived       int
	Manual        int
	HasManual     bool
	Placeholder   bool
	Canonical     string
}

func newRow(index int, entry episode.Entry) Row {
	manual, ok := entry.ManualEpisode()
	row := Row{
		Index:         index,
		Path:          entry.Path,
		Filename:      entry.Filename(),
		Title:         entry.Title,
		Season:        entry.Season,
		ParsedEpisode: entry.ParsedEpisode,
		Derived:       entry.Derived,
		Manual:        manual,
		HasManual:     ok,
		Placeholder:   entry.IsPlaceholder(),
	}
	if !row.Placeholder {
		row.Canonical = entry.CanonicalName()
	}
	return row
}

// SeasonText renders the season, blank when unknown.
func (r Row) SeasonText() string {
	return numberText(r.Season)
}

// EpisodeText renders the parsed episode, blank when unknown.
func (r Row) EpisodeText() string {
	return numberText(r.ParsedEpisode)
}

// DerivedText renders the derived position as "derived(derived)".
func (r Row) DerivedText() string {
	return strconv.Itoa(r.Derived) + "(" + strconv.Itoa(r.Derived) + ")"
}

// ManualText renders the pin, blank when absent.
func (r Row) ManualText() string {
	if !r.HasManual {
		return ""
	}
	return strconv.Itoa(r.Manual)
}

// DisplayName is the filename, or a marker for placeholder rows.
func (r Row) DisplayName() string {
	if r.Placeholder {
		return "(placeholder)"
	}
	return r.Filename
}

func numberText(n int) string {
	if n == episode.Unknown {
		return ""
	}
	return strconv.Itoa(n)
}
