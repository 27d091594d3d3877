package domain

import (
	"fmt"
	"strings"
)

type OverlapPolicy string

const (
	// OverlapHalfOpen treats windows as [start, end); back-to-back bookings
	// do not conflict.
	OverlapHalfOpen OverlapPolicy = "half-open"
	// OverlapInclusive treats touching windows as conflicting.
	OverlapInclusive OverlapPolicy = "inclusive"
)

func ParseOverlapPolicy(s string) (OverlapPolicy, error) {
	switch OverlapPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", OverlapHalfOpen:
		return OverlapHalfOpen, nil
	case OverlapInclusive:
		return OverlapInclusive, nil
	default:
		return "", fmt.Errorf("unknown overlap policy %q", s)
	}
}

func (p OverlapPolicy) Overlaps(a, b Window) bool {
	if p == OverlapInclusive {
		return !a.Start.After(b.End) && !a.End.Before(b.Start)
	}
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

func HasConflict(existing []Window, candidate Window, policy OverlapPolicy) bool {
	_, ok := FindConflict(existing, candidate, policy)
	return ok
}

// FindConflict returns the first existing window that overlaps candidate.
func FindConflict(existing []Window, candidate Window, policy OverlapPolicy) (Window, bool) {
	for _, w := range existing {
		if policy.Overlaps(candidate, w) {
			return w, true
		}
	}
	return Window{}, false
}

func ConflictError(candidate, existing Window) error {
	return SlotConflict(
		fmt.Sprintf("staff member is already booked %s-%s", FormatClock(existing.Start), FormatClock(existing.End)),
		map[string]string{
			"day":             FormatDay(existing.Start),
			"existing_start":  FormatClock(existing.Start),
			"existing_end":    FormatClock(existing.End),
			"requested_start": FormatClock(candidate.Start),
			"requested_end":   FormatClock(candidate.End),
		},
	)
}
