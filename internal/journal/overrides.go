package journal

import (
	"context"
	"fmt"
	"path/filepath"
)

// SetOverride stores a manual episode pin for a file.
func (s *Store) SetOverride(ctx context.Context, path string, episode int) error {
	if episode < 1 {
		return fmt.Errorf("override episode must be positive, got %d", episode)
	}
	dir, name := splitPath(path)
	_, err := s.execWithRetry(ctx,
		`INSERT INTO overrides (directory, filename, episode, updated_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(directory, filename) DO UPDATE SET episode = excluded.episode, updated_at = excluded.updated_at`,
		dir, name, episode, timestamp(),
	)
	if err != nil {
		return fmt.Errorf("upsert override: %w", err)
	}
	return nil
}

// ClearOverride removes the pin for a file. Missing pins are not an error.
func (s *Store) ClearOverride(ctx context.Context, path string) error {
	dir, name := splitPath(path)
	if _, err := s.execWithRetry(ctx,
		`DELETE FROM overrides WHERE directory = ? AND filename = ?`, dir, name,
	); err != nil {
		return fmt.Errorf("delete override: %w", err)
	}
	return nil
}

// ClearDirectory removes every pin stored for dir.
func (s *Store) ClearDirectory(ctx context.Context, dir string) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM overrides WHERE directory = ?`, filepath.Clean(dir))
	if err != nil {
		return 0, fmt.Errorf("delete overrides: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Overrides returns the pins stored for dir keyed by full path.
func (s *Store) Overrides(ctx context.Context, dir string) (map[string]Override, error) {
	ctx = ensureContext(ctx)
	dir = filepath.Clean(dir)
	rows, err := s.db.QueryContext(ctx,
		`SELECT filename, episode, updated_at FROM overrides WHERE directory = ? ORDER BY filename`, dir)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Override)
	for rows.Next() {
		var (
			o       Override
			updated string
		)
		if err := rows.Scan(&o.Filename, &o.Episode, &updated); err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		o.Directory = dir
		o.UpdatedAt = parseTimestamp(updated)
		out[filepath.Join(dir, o.Filename)] = o
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overrides: %w", err)
	}
	return out, nil
}

func splitPath(path string) (string, string) {
	clean := filepath.Clean(path)
	return filepath.Dir(clean), filepath.Base(clean)
}
