package domain

import (
	"fmt"
	"time"
)

const (
	DayLayout   = "2006-01-02"
	ClockLayout = "15:04"
)

// Clock is a wall-clock time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

type Order int

const (
	Before Order = -1
	Equal  Order = 0
	After  Order = 1
)

// Window is the half-open interval [Start, End) occupied by a booking.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

func (w Window) Valid() bool {
	return w.Start.Before(w.End)
}

// Salon times carry no zone. Every timestamp produced here is the wall-clock
// value expressed in UTC so that two values from the same salon compare as
// wall-clock times.

// ParseDay parses a strict YYYY-MM-DD date and returns midnight of that day.
func ParseDay(s string) (time.Time, error) {
	if len(s) != len(DayLayout) {
		return time.Time{}, MalformedInput(fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", s))
	}
	d, err := time.ParseInLocation(DayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, MalformedInput(fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", s))
	}
	return d, nil
}

// ParseClock parses a strict 24h HH:mm time of day.
func ParseClock(s string) (Clock, error) {
	if len(s) != len(ClockLayout) {
		return Clock{}, MalformedInput(fmt.Sprintf("invalid time %q: expected HH:mm", s))
	}
	t, err := time.ParseInLocation(ClockLayout, s, time.UTC)
	if err != nil {
		return Clock{}, MalformedInput(fmt.Sprintf("invalid time %q: expected HH:mm", s))
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func Combine(day time.Time, c Clock) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, time.UTC)
}

func AddMinutes(ts time.Time, minutes int) time.Time {
	return ts.Add(time.Duration(minutes) * time.Minute)
}

func Compare(a, b time.Time) Order {
	switch {
	case a.Before(b):
		return Before
	case a.After(b):
		return After
	default:
		return Equal
	}
}

// DayOf truncates a timestamp to midnight of its wall-clock day.
func DayOf(ts time.Time) time.Time {
	ts = ts.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}

func FormatDay(day time.Time) string {
	return day.UTC().Format(DayLayout)
}

func FormatClock(ts time.Time) string {
	return ts.UTC().Format(ClockLayout)
}
