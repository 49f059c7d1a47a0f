package episode

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Unknown marks a season or episode that was not found in the filename.
const Unknown = -1

// UnknownTitle is used when no show title precedes the identifiers.
const UnknownTitle = "unknown"

var (
	seasonPattern  = regexp.MustCompile(`[sS]([0-9]+)`)
	episodePattern = regexp.MustCompile(`[eE]([0-9]+)`)
	titleSeparator = regexp.MustCompile(`[\s._\-]+`)
)

// Identifiers holds the markers found in a filename.
type Identifiers struct {
	Season  int
	Episode int
	// Misses lists marker digit runs that could not be converted to an int.
	Misses []string
}

// ParseIdentifiers scans name for season and episode markers. Each field is
// matched independently and the last valid occurrence wins.
func ParseIdentifiers(name string) Identifiers {
	ids := Identifiers{Season: Unknown, Episode: Unknown}
	ids.Season, ids.Misses = lastNumber(seasonPattern, name, ids.Misses)
	ids.Episode, ids.Misses = lastNumber(episodePattern, name, ids.Misses)
	return ids
}

// Parse is a convenience wrapper returning only the season and episode.
func Parse(name string) (season, episode int) {
	ids := ParseIdentifiers(name)
	return ids.Season, ids.Episode
}

func lastNumber(pattern *regexp.Regexp, name string, misses []string) (int, []string) {
	value := Unknown
	for _, match := range pattern.FindAllStringSubmatch(name, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			misses = append(misses, match[0])
			continue
		}
		value = n
	}
	return value, misses
}

// ParseTitle derives the show title from the text preceding the first season
// or episode marker. Separators become spaces and the result is title-cased.
func ParseTitle(name string) string {
	stem := strings.TrimSuffix(name, extensionOf(name))
	cut := len(stem)
	for _, pattern := range []*regexp.Regexp{seasonPattern, episodePattern} {
		if loc := pattern.FindStringIndex(stem); loc != nil && loc[0] < cut {
			cut = loc[0]
		}
	}
	if cut == len(stem) {
		// No marker: the whole stem is not a reliable title.
		return UnknownTitle
	}
	words := strings.TrimSpace(titleSeparator.ReplaceAllString(stem[:cut], " "))
	if words == "" {
		return UnknownTitle
	}
	return cases.Title(language.Und).String(strings.ToLower(words))
}

// extensionOf returns the suffix after the last dot, including the dot. A
// suffix carrying a season or episode marker (as in "Show.S01E02") is part of
// the name, so such files have no extension.
func extensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return ""
	}
	ext := name[idx:]
	if seasonPattern.MatchString(ext) || episodePattern.MatchString(ext) {
		return ""
	}
	return ext
}
