package episode

import (
	"errors"
	"fmt"
)

var (
	// ErrOverrideOutOfRange reports an override outside 1..N.
	ErrOverrideOutOfRange = errors.New("manual episode out of range")
	// ErrDuplicateOverride reports two entries pinned to the same slot.
	ErrDuplicateOverride = errors.New("duplicate manual episode")
)

// Renumber assigns Derived positions 1..N to entries that are already sorted.
// Pinned entries take the slot matching their override; the rest fill the
// free slots in sorted order. The input is not modified.
func Renumber(sorted []Entry) ([]Entry, error) {
	n := len(sorted)
	slots := make([]*Entry, n)

	for i := range sorted {
		m, ok := sorted[i].ManualEpisode()
		if !ok {
			continue
		}
		if m > n {
			return nil, fmt.Errorf("%w: %d exceeds %d entries", ErrOverrideOutOfRange, m, n)
		}
		if slots[m-1] != nil {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateOverride, m)
		}
		slots[m-1] = &sorted[i]
	}

	cursor := 0
	for i := range slots {
		if slots[i] != nil {
			continue
		}
		for sorted[cursor].HasManualEpisode() {
			cursor++
		}
		slots[i] = &sorted[cursor]
		cursor++
	}

	result := make([]Entry, n)
	for i, entry := range slots {
		result[i] = *entry
		result[i].Derived = i + 1
	}
	return result, nil
}
