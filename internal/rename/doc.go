// Package rename moves episode files to their canonical S01E02.ext names.
//
// BuildPlan computes every source, temporary and final path before anything
// touches the disk. The Executor then renames in two phases: every file first
// moves to its temporary name (the final name plus a random lowercase suffix),
// and only then to its final name. A file that wants another file's current
// name therefore never collides with it.
//
// When a rename fails the Executor stops, optionally restores completed moves
// in reverse order, and returns a *CommitError listing which files were and
// were not moved. A Recorder can persist step progress so an interrupted
// commit can be restored later with Executor.Restore.
package rename
