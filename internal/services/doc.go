// Package services defines shared utilities consumed by the episode engine,
// the rename executor, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp rename session IDs, operation names, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper so callers can classify a
//     failure (rejected input vs. filesystem trouble) with errors.Is.
//
// Use these helpers when wiring new commands so error handling and
// observability stay uniform.
package services
