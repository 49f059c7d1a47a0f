// Package main hosts the showtool CLI entrypoint and command graph.
//
// Every command that works on episodes builds a session from the files or
// directories given as arguments (the current directory when none are given),
// restores the manual episode pins stored in the journal, and then lists,
// edits, previews or commits the resulting order. Configuration resolution,
// logging setup and journal access live in commandContext so subcommands can
// focus on output.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
