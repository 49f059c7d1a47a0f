package rename

import (
	"context"
	"fmt"

	"showtool/internal/logging"
	"showtool/internal/services"
)

// Restore moves the files of an interrupted or failed session back to their
// original names. states holds the last recorded state of each step and is
// reconciled with what is actually on disk, since a crash can land between a
// rename and its journal write. The returned slice holds the final states.
func (e *Executor) Restore(ctx context.Context, sessionID string, steps []Step, states []StepState) ([]StepState, error) {
	if len(steps) != len(states) {
		return nil, fmt.Errorf("restore: %d steps but %d states", len(steps), len(states))
	}
	ctx = services.WithSessionID(ctx, sessionID)
	logger := logging.WithContext(ctx, e.logger)

	if e.lockPath != "" {
		lock, err := acquireLock(ctx, e.lockPath, e.lockTimeout)
		if err != nil {
			return nil, err
		}
		defer func() { _ = lock.Unlock() }()
	}

	work := make([]progress, 0, len(steps))
	for i, step := range steps {
		if step.Unchanged {
			continue
		}
		work = append(work, progress{index: i, step: step, state: reconcile(step, states[i])})
	}

	err := e.restore(ctx, logger, sessionID, work)

	out := append([]StepState(nil), states...)
	for _, p := range work {
		out[p.index] = p.state
	}

	status := StatusRecovered
	if err != nil {
		status = StatusFailed
	}
	if e.recorder != nil {
		if ferr := e.recorder.Finish(ctx, sessionID, status); ferr != nil {
			logging.WarnWithContext(logger, "failed to record recovery", "journal_write_failed", logging.Error(ferr))
		}
	}
	if err != nil {
		return out, fmt.Errorf("restore session %s: %w", sessionID, err)
	}
	logger.Info("session restored", logging.Int("steps", len(work)))
	return out, nil
}

func reconcile(step Step, state StepState) StepState {
	switch state {
	case StatePending:
		if exists(step.Temp) {
			return StateStaged
		}
	case StateStaged:
		if !exists(step.Temp) && exists(step.Final) {
			return StateDone
		}
	}
	return state
}
