// Package logs reads back the showtool log file.
//
// Tail returns the last N lines, optionally restricted to one commit session,
// and can keep polling for new lines until its context ends. The session
// filter understands both the console and the JSON log formats.
package logs
