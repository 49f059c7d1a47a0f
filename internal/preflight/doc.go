// Package preflight provides readiness checks for the filesystem paths that
// showtool depends on.
//
// The CLI runs RunAll before a commit so a show directory that cannot be
// written fails before any file moves, and "showtool config validate" prints
// the same results as a table.
package preflight
