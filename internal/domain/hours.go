package domain

import (
	"fmt"
	"time"
)

// ValidateOperatingHours reports whether [start, end) fits inside the salon's
// hours on day. Both bounds are inclusive: a booking may start exactly at
// opening and end exactly at closing.
func ValidateOperatingHours(day, start, end time.Time, hours WorkingHours) error {
	openClock, closeClock, err := hours.Bounds()
	if err != nil {
		return err
	}
	open := Combine(day, openClock)
	closing := Combine(day, closeClock)

	if Compare(start, open) != Before && Compare(end, closing) != After {
		return nil
	}
	return OutOfHours(
		fmt.Sprintf("booking %s-%s is outside salon hours %s-%s", FormatClock(start), FormatClock(end), hours.Start, hours.End),
		map[string]string{
			"salon_open":      hours.Start,
			"salon_close":     hours.End,
			"requested_start": FormatClock(start),
			"requested_end":   FormatClock(end),
		},
	)
}
