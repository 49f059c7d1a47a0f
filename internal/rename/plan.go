package rename

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"

	"showtool/internal/episode"
)

// DefaultSuffixLength is the number of random letters appended to temporary names.
const DefaultSuffixLength = 6

var (
	// ErrUnknownSeason reports an entry whose filename carried no season marker.
	ErrUnknownSeason = errors.New("season unknown")
	// ErrNotRenumbered reports an entry without a derived position.
	ErrNotRenumbered = errors.New("entry not renumbered")
	// ErrTargetConflict reports two entries that resolve to the same final path.
	ErrTargetConflict = errors.New("target name conflict")
)

// Step is one file's journey through the two rename phases.
type Step struct {
	Original string `json:"original"`
	Temp     string `json:"temp,omitempty"`
	Final    string `json:"final"`
	// Unchanged steps already carry their final name and are not moved.
	Unchanged bool `json:"unchanged,omitempty"`
}

// Plan holds the steps for every file-backed entry, in collection order.
type Plan struct {
	Steps []Step
}

// Changed returns the steps that move a file.
func (p Plan) Changed() []Step {
	var out []Step
	for _, step := range p.Steps {
		if !step.Unchanged {
			out = append(out, step)
		}
	}
	return out
}

// FinalPaths returns the path every entry ends up at, in plan order.
func (p Plan) FinalPaths() []string {
	out := make([]string, 0, len(p.Steps))
	for _, step := range p.Steps {
		out = append(out, step.Final)
	}
	return out
}

// PlanOptions controls temporary name generation.
type PlanOptions struct {
	SuffixLength int
	// Rand supplies suffix letters; nil uses the global generator.
	Rand *rand.Rand
}

// BuildPlan computes the rename steps for entries. Placeholders are skipped.
func BuildPlan(entries []episode.Entry, opts PlanOptions) (Plan, error) {
	length := opts.SuffixLength
	if length <= 0 {
		length = DefaultSuffixLength
	}

	plan := Plan{Steps: make([]Step, 0, len(entries))}
	finals := make(map[string]string, len(entries))
	temps := make(map[string]struct{}, len(entries))

	for _, entry := range entries {
		if entry.IsPlaceholder() {
			continue
		}
		if entry.Season < 0 {
			return Plan{}, fmt.Errorf("%w: %s", ErrUnknownSeason, entry.Filename())
		}
		if entry.Derived < 1 {
			return Plan{}, fmt.Errorf("%w: %s", ErrNotRenumbered, entry.Filename())
		}

		original := filepath.Clean(entry.Path)
		final := filepath.Join(filepath.Dir(original), entry.CanonicalName())
		if prev, ok := finals[final]; ok {
			return Plan{}, fmt.Errorf("%w: %s and %s both map to %s",
				ErrTargetConflict, filepath.Base(prev), entry.Filename(), filepath.Base(final))
		}
		finals[final] = original

		step := Step{Original: original, Final: final, Unchanged: original == final}
		if !step.Unchanged {
			for {
				step.Temp = final + randomSuffix(opts.Rand, length)
				if _, taken := temps[step.Temp]; !taken {
					break
				}
			}
			temps[step.Temp] = struct{}{}
		}
		plan.Steps = append(plan.Steps, step)
	}
	return plan, nil
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz"

func randomSuffix(r *rand.Rand, length int) string {
	var b strings.Builder
	b.Grow(length)
	for range length {
		var idx int
		if r != nil {
			idx = r.IntN(len(suffixAlphabet))
		} else {
			idx = rand.IntN(len(suffixAlphabet))
		}
		b.WriteByte(suffixAlphabet[idx])
	}
	return b.String()
}
