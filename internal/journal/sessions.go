package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"showtool/internal/rename"
)

// ErrSessionNotFound is returned when no session matches an id.
var ErrSessionNotFound = errors.New("session not found")

var _ rename.Recorder = (*Store)(nil)

// Begin records a new running session and all of its steps.
func (s *Store) Begin(ctx context.Context, sessionID, directory string, plan rename.Plan) error {
	now := timestamp()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (id, directory, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			sessionID, directory, string(rename.StatusRunning), now, now,
		); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
		for i, step := range plan.Steps {
			state := rename.StatePending
			if step.Unchanged {
				state = rename.StateUnchanged
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO steps (session_id, seq, original, temp, final, state) VALUES (?, ?, ?, ?, ?, ?)`,
				sessionID, i, step.Original, step.Temp, step.Final, string(state),
			); err != nil {
				return fmt.Errorf("insert step %d: %w", i, err)
			}
		}
		return nil
	})
}

// MarkStep updates the recorded state of one step.
func (s *Store) MarkStep(ctx context.Context, sessionID string, index int, state rename.StepState) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE steps SET state = ? WHERE session_id = ? AND seq = ?`,
		string(state), sessionID, index,
	)
	if err != nil {
		return fmt.Errorf("update step: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s step %d", ErrSessionNotFound, sessionID, index)
	}
	if _, err := s.execWithRetry(ctx, `UPDATE sessions SET updated_at = ? WHERE id = ?`, timestamp(), sessionID); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// Finish records the final status of a session.
func (s *Store) Finish(ctx context.Context, sessionID string, status rename.Status) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE sessions SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), timestamp(), sessionID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

// GetSession loads a session and its steps.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, directory, status, created_at, updated_at FROM sessions WHERE id = ?`, sessionID)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadSteps(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ListSessions returns the most recent sessions first, with their steps.
// A limit of zero or less returns every session.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]*Session, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, directory, status, created_at, updated_at FROM sessions ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	for _, session := range sessions {
		if err := s.loadSteps(ctx, session); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

// PendingRecovery returns sessions whose files may be stranded at temporary names.
func (s *Store) PendingRecovery(ctx context.Context) ([]*Session, error) {
	sessions, err := s.ListSessions(ctx, 0)
	if err != nil {
		return nil, err
	}
	var pending []*Session
	for _, session := range sessions {
		if session.NeedsRecovery() {
			pending = append(pending, session)
		}
	}
	return pending, nil
}

// Prune deletes all but the newest keep sessions that do not need recovery.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	sessions, err := s.ListSessions(ctx, 0)
	if err != nil {
		return 0, err
	}
	removed := 0
	for i, session := range sessions {
		if i < keep || session.NeedsRecovery() {
			continue
		}
		err := s.withTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `DELETE FROM steps WHERE session_id = ?`, session.ID); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, session.ID)
			return err
		})
		if err != nil {
			return removed, fmt.Errorf("delete session %s: %w", session.ID, err)
		}
		removed++
	}
	return removed, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var (
		session            Session
		status             string
		created, updatedAt string
	)
	if err := row.Scan(&session.ID, &session.Directory, &status, &created, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}
	session.Status = rename.Status(status)
	session.CreatedAt = parseTimestamp(created)
	session.UpdatedAt = parseTimestamp(updatedAt)
	return &session, nil
}

func (s *Store) loadSteps(ctx context.Context, session *Session) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, original, temp, final, state FROM steps WHERE session_id = ? ORDER BY seq`, session.ID)
	if err != nil {
		return fmt.Errorf("load steps: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec   StepRecord
			state string
		)
		if err := rows.Scan(&rec.Seq, &rec.Step.Original, &rec.Step.Temp, &rec.Step.Final, &state); err != nil {
			return fmt.Errorf("scan step: %w", err)
		}
		rec.State = rename.StepState(state)
		rec.Step.Unchanged = rec.State == rename.StateUnchanged
		session.Steps = append(session.Steps, rec)
	}
	return rows.Err()
}
