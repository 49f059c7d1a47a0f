package rename

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTargetExists reports a final or temporary path already occupied by a
	// file outside the plan.
	ErrTargetExists = errors.New("target already exists")
	// ErrSourceMissing reports a planned source file that is no longer on disk.
	ErrSourceMissing = errors.New("source file missing")
)

// Phase identifies which half of the two-phase rename failed.
type Phase int

const (
	PhasePreflight Phase = iota
	PhaseStage
	PhaseFinalize
)

func (p Phase) String() string {
	switch p {
	case PhasePreflight:
		return "preflight"
	case PhaseStage:
		return "stage"
	case PhaseFinalize:
		return "finalize"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// CommitError describes a failed commit and the resulting state on disk.
type CommitError struct {
	SessionID string
	Phase     Phase
	Step      Step
	Err       error
	// Moved lists original paths whose file is no longer at that path.
	Moved []string
	// NotMoved lists original paths still holding their file.
	NotMoved    []string
	RolledBack  bool
	RollbackErr error
}

func (e *CommitError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "rename %s failed at %s: %v", e.Phase, e.Step.Original, e.Err)
	switch {
	case e.RollbackErr != nil:
		fmt.Fprintf(&b, " (rollback failed: %v; %d file(s) left moved)", e.RollbackErr, len(e.Moved))
	case e.RolledBack:
		b.WriteString(" (rolled back)")
	case len(e.Moved) > 0:
		fmt.Fprintf(&b, " (%d moved, %d not moved)", len(e.Moved), len(e.NotMoved))
	}
	return b.String()
}

func (e *CommitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
