package journal

import (
	"time"

	"showtool/internal/rename"
)

// Session is one recorded rename commit.
type Session struct {
	ID        string        `json:"id"`
	Directory string        `json:"directory"`
	Status    rename.Status `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Steps     []StepRecord  `json:"steps"`
}

// StepRecord is the persisted state of one plan step.
type StepRecord struct {
	Seq   int              `json:"seq"`
	Step  rename.Step      `json:"step"`
	State rename.StepState `json:"state"`
}

// Plan rebuilds the rename plan recorded for the session.
func (s *Session) Plan() rename.Plan {
	plan := rename.Plan{Steps: make([]rename.Step, 0, len(s.Steps))}
	for _, rec := range s.Steps {
		plan.Steps = append(plan.Steps, rec.Step)
	}
	return plan
}

// States returns the step states in plan order.
func (s *Session) States() []rename.StepState {
	states := make([]rename.StepState, 0, len(s.Steps))
	for _, rec := range s.Steps {
		states = append(states, rec.State)
	}
	return states
}

// NeedsRecovery reports whether files of the session may sit at temporary names.
func (s *Session) NeedsRecovery() bool {
	switch s.Status {
	case rename.StatusCompleted, rename.StatusRolledBack, rename.StatusRecovered:
		return false
	case rename.StatusRunning:
		// The process stopped mid-commit. A file may already sit at its
		// temporary name while its step still reads pending.
		return true
	}
	for _, rec := range s.Steps {
		switch rec.State {
		case rename.StateStaged, rename.StateDone:
			return true
		}
	}
	return false
}

// Override is a persisted manual episode pin.
type Override struct {
	Directory string
	Filename  string
	Episode   int
	UpdatedAt time.Time
}
