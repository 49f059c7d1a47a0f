// Package episode orders the video files of a single show and assigns them a
// contiguous 1..N episode numbering.
//
// The flow is:
//   - ParseIdentifiers extracts season and episode markers from a filename
//   - Entries are sorted with a LessFunc (Less by default)
//   - Renumber places manually pinned entries at their slot and fills the
//     remaining slots in sorted order
//
// A Collection bundles these steps. It is an immutable value: every edit
// returns a new Collection that is already sorted and renumbered, so callers
// never observe an intermediate state.
package episode
