package rename

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"showtool/internal/logging"
	"showtool/internal/services"
)

// StepState tracks where a step's file currently lives.
type StepState string

const (
	StatePending   StepState = "pending"
	StateStaged    StepState = "staged"
	StateDone      StepState = "done"
	StateRestored  StepState = "restored"
	StateUnchanged StepState = "unchanged"
)

// Status is the outcome of a commit session.
type Status string

const (
	StatusRunning    Status = "running"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusRolledBack Status = "rolled_back"
	StatusRecovered  Status = "recovered"
)

// Recorder persists commit progress so interrupted sessions can be restored.
type Recorder interface {
	Begin(ctx context.Context, sessionID, directory string, plan Plan) error
	MarkStep(ctx context.Context, sessionID string, index int, state StepState) error
	Finish(ctx context.Context, sessionID string, status Status) error
}

// Result summarizes a successful commit.
type Result struct {
	SessionID string
	Plan      Plan
	Renamed   int
	Unchanged int
}

// Executor applies rename plans to the filesystem.
type Executor struct {
	logger      *slog.Logger
	recorder    Recorder
	rollback    bool
	lockPath    string
	lockTimeout time.Duration
	rename      func(oldpath, newpath string) error
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger that receives per-step rename events.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) { e.logger = logger }
}

// WithRecorder journals each step so an interrupted commit can be restored.
func WithRecorder(recorder Recorder) Option {
	return func(e *Executor) { e.recorder = recorder }
}

// WithRollback controls whether completed moves are undone after a failure.
func WithRollback(enabled bool) Option {
	return func(e *Executor) { e.rollback = enabled }
}

// WithLock serializes commits across processes using a lock file.
func WithLock(path string, timeout time.Duration) Option {
	return func(e *Executor) {
		e.lockPath = path
		e.lockTimeout = timeout
	}
}

// WithRenameFunc replaces os.Rename.
func WithRenameFunc(fn func(oldpath, newpath string) error) Option {
	return func(e *Executor) {
		if fn != nil {
			e.rename = fn
		}
	}
}

// NewExecutor builds an executor. Rollback is enabled by default.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{rollback: true, rename: os.Rename}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "rename")
	return e
}

// progress pairs a step with the location of its file.
type progress struct {
	index int
	step  Step
	state StepState
}

// Execute runs the plan. The context is only consulted before the first
// rename; once files start moving the commit runs to completion or failure.
func (e *Executor) Execute(ctx context.Context, plan Plan) (Result, error) {
	sessionID := uuid.NewString()
	ctx = services.WithSessionID(ctx, sessionID)
	logger := logging.WithContext(ctx, e.logger)
	result := Result{SessionID: sessionID, Plan: plan}

	var work []progress
	for i, step := range plan.Steps {
		if step.Unchanged {
			result.Unchanged++
			logger.Debug("keeping canonical name",
				logging.Args(logging.DecisionAttrs("rename_skip", "keep", "already canonical")...)...)
			continue
		}
		work = append(work, progress{index: i, step: step, state: StatePending})
	}
	if len(work) == 0 {
		logger.Info("nothing to rename", logging.Int(logging.FieldEpisodeCount, len(plan.Steps)))
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if e.lockPath != "" {
		lock, err := acquireLock(ctx, e.lockPath, e.lockTimeout)
		if err != nil {
			return result, err
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				logging.WarnWithContext(logger, "failed to release commit lock", "lock_release_failed",
					logging.String("lock", e.lockPath),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "remove the lock file if no other showtool process is running"),
				)
			}
		}()
	}

	if failed, err := preflight(plan, work); err != nil {
		return result, e.commitError(sessionID, PhasePreflight, failed, err, work)
	}

	if e.recorder != nil {
		if err := e.recorder.Begin(ctx, sessionID, planDirectory(plan), plan); err != nil {
			return result, fmt.Errorf("record session: %w", err)
		}
	}
	started := time.Now()
	logger.Info("rename commit started",
		logging.Int("renames", len(work)),
		logging.Int("unchanged", result.Unchanged),
	)

	for i := range work {
		p := &work[i]
		if err := e.move(p.step.Original, p.step.Temp); err != nil {
			return result, e.fail(ctx, logger, sessionID, PhaseStage, p.step, err, work)
		}
		p.state = StateStaged
		e.mark(ctx, logger, sessionID, *p)
		logger.Debug("staged", logging.String("from", p.step.Original), logging.String("temp", p.step.Temp))
	}

	for i := range work {
		p := &work[i]
		if exists(p.step.Final) {
			err := fmt.Errorf("%w: %s", ErrTargetExists, p.step.Final)
			return result, e.fail(ctx, logger, sessionID, PhaseFinalize, p.step, err, work)
		}
		if err := e.move(p.step.Temp, p.step.Final); err != nil {
			return result, e.fail(ctx, logger, sessionID, PhaseFinalize, p.step, err, work)
		}
		p.state = StateDone
		e.mark(ctx, logger, sessionID, *p)
		logger.Info("renamed",
			logging.String("from", p.step.Original),
			logging.String("to", p.step.Final),
			logging.String(logging.FieldEpisodeLabel, episodeLabel(p.step.Final)),
		)
	}

	result.Renamed = len(work)
	if e.recorder != nil {
		if err := e.recorder.Finish(ctx, sessionID, StatusCompleted); err != nil {
			logging.WarnWithContext(logger, "failed to record commit completion", "journal_write_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "history shows the session as running"),
			)
		}
	}
	logger.Info("rename commit completed",
		logging.Int("renamed", result.Renamed),
		logging.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

// preflight verifies sources are present and that no final or temporary path
// is held by a file the plan does not move.
func preflight(plan Plan, work []progress) (Step, error) {
	moving := make(map[string]struct{}, len(work))
	for _, p := range work {
		moving[p.step.Original] = struct{}{}
	}
	for _, p := range work {
		if !exists(p.step.Original) {
			return p.step, fmt.Errorf("%w: %s", ErrSourceMissing, p.step.Original)
		}
		if p.step.Temp == "" {
			return p.step, fmt.Errorf("step for %s has no temporary name", p.step.Original)
		}
		if exists(p.step.Temp) {
			return p.step, fmt.Errorf("%w: %s", ErrTargetExists, p.step.Temp)
		}
		if _, ok := moving[p.step.Final]; !ok && exists(p.step.Final) {
			return p.step, fmt.Errorf("%w: %s", ErrTargetExists, p.step.Final)
		}
	}
	return Step{}, nil
}

func (e *Executor) move(from, to string) error {
	if err := e.rename(from, to); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", from, to, err)
	}
	return nil
}

func (e *Executor) mark(ctx context.Context, logger *slog.Logger, sessionID string, p progress) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.MarkStep(ctx, sessionID, p.index, p.state); err != nil {
		logging.WarnWithContext(logger, "failed to record step state", "journal_write_failed",
			logging.String("original", p.step.Original),
			logging.String("state", string(p.state)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "recover may not know where this file is"),
		)
	}
}

func (e *Executor) fail(ctx context.Context, logger *slog.Logger, sessionID string, phase Phase, step Step, cause error, work []progress) error {
	logging.ErrorWithContext(logger, "rename commit failed", "rename_failed",
		logging.String("phase", phase.String()),
		logging.String("original", step.Original),
		logging.Error(cause),
	)

	status := StatusFailed
	var rollbackErr error
	if e.rollback {
		rollbackErr = e.restore(ctx, logger, sessionID, work)
		if rollbackErr == nil {
			status = StatusRolledBack
			logger.Info("rename commit rolled back")
		} else {
			logging.ErrorWithContext(logger, "rollback failed", "rollback_failed",
				logging.Error(rollbackErr),
				logging.Bool(logging.FieldAlert, true),
				logging.String(logging.FieldErrorHint, "run showtool recover "+sessionID),
			)
		}
	}
	if e.recorder != nil {
		if err := e.recorder.Finish(ctx, sessionID, status); err != nil {
			logging.WarnWithContext(logger, "failed to record commit failure", "journal_write_failed", logging.Error(err))
		}
	}

	ce := e.commitError(sessionID, phase, step, cause, work)
	ce.RolledBack = e.rollback && rollbackErr == nil
	ce.RollbackErr = rollbackErr
	return ce
}

func (e *Executor) commitError(sessionID string, phase Phase, step Step, cause error, work []progress) *CommitError {
	ce := &CommitError{SessionID: sessionID, Phase: phase, Step: step, Err: cause}
	for _, p := range work {
		switch p.state {
		case StateStaged, StateDone:
			ce.Moved = append(ce.Moved, p.step.Original)
		default:
			ce.NotMoved = append(ce.NotMoved, p.step.Original)
		}
	}
	return ce
}

// restore moves files back to their original names. Finalized files return
// to their temporary names first so every original name is free before any
// file is moved back into one.
func (e *Executor) restore(ctx context.Context, logger *slog.Logger, sessionID string, work []progress) error {
	var errs []error
	for i := len(work) - 1; i >= 0; i-- {
		p := &work[i]
		if p.state != StateDone {
			continue
		}
		if err := e.move(p.step.Final, p.step.Temp); err != nil {
			errs = append(errs, err)
			continue
		}
		p.state = StateStaged
		e.mark(ctx, logger, sessionID, *p)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	for i := len(work) - 1; i >= 0; i-- {
		p := &work[i]
		if p.state != StateStaged {
			continue
		}
		if exists(p.step.Original) {
			errs = append(errs, fmt.Errorf("%w: %s", ErrTargetExists, p.step.Original))
			continue
		}
		if err := e.move(p.step.Temp, p.step.Original); err != nil {
			errs = append(errs, err)
			continue
		}
		p.state = StateRestored
		e.mark(ctx, logger, sessionID, *p)
	}
	return errors.Join(errs...)
}

// episodeLabel strips the extension from a canonical file name.
func episodeLabel(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func planDirectory(plan Plan) string {
	if len(plan.Steps) == 0 {
		return ""
	}
	return filepath.Dir(plan.Steps[0].Original)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}
