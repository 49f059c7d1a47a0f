// Package session is the single owner of an episode collection while a user
// edits it.
//
// A Session exposes the rows a table view needs, applies manual episode edits
// by swapping in a freshly sorted and renumbered Collection, persists those
// edits to an OverrideStore so they survive between CLI invocations, and
// commits the result through a rename.Executor. After a successful commit the
// collection is rebuilt from the new file names and the stored pins for the
// affected directories are cleared.
package session
