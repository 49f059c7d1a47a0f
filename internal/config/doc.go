// Package config loads, normalizes, and validates showtool configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SHOWTOOL_LOG_LEVEL. The Config type centralizes every knob the CLI needs:
// where the override journal lives, which file extensions count as video,
// which ordering relation sorts episodes, and how commits are staged.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
