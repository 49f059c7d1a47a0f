package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateOrdering(); err != nil {
		return err
	}
	if err := c.validateRename(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateLibrary() error {
	if len(c.Library.VideoExtensions) == 0 {
		return errors.New("library.video_extensions must list at least one extension")
	}
	return nil
}

func (c *Config) validateOrdering() error {
	switch c.Ordering.Relation {
	case OrderingLiteral, OrderingSeasonFirst:
		return nil
	default:
		return fmt.Errorf("ordering.relation must be %q or %q, got %q", OrderingLiteral, OrderingSeasonFirst, c.Ordering.Relation)
	}
}

func (c *Config) validateRename() error {
	if c.Rename.SuffixLength < MinSuffixLength || c.Rename.SuffixLength > MaxSuffixLength {
		return fmt.Errorf("rename.suffix_length must be between %d and %d", MinSuffixLength, MaxSuffixLength)
	}
	if c.Rename.LockTimeoutSeconds < 0 {
		return errors.New("rename.lock_timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
