// Package journal persists showtool state in a SQLite database under the
// configured state directory.
//
// Two kinds of data live here:
//   - manual episode overrides, keyed by directory and filename, so pins set
//     by one CLI invocation survive until the next commit
//   - rename sessions and the state of every step, so a commit interrupted
//     between its two phases can be restored and past commits listed
//
// Store implements rename.Recorder. Writes retry briefly on SQLITE_BUSY so two
// CLI processes reading the same journal do not fail spuriously.
package journal
