package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

var (
	cutID   = uuid.MustParse("00000000-0000-0000-0000-0000000000c1")
	colorID = uuid.MustParse("00000000-0000-0000-0000-0000000000c2")
	washID  = uuid.MustParse("00000000-0000-0000-0000-0000000000c3")
)

func testCatalog() []Service {
	return []Service{
		{ID: cutID, Name: "Cut", DurationMinutes: 30},
		{ID: colorID, Name: "Color", DurationMinutes: 90},
		{ID: washID, Name: "Wash", DurationMinutes: 15},
	}
}

func at(h, m int) time.Time {
	return time.Date(2026, 3, 14, h, m, 0, 0, time.UTC)
}

func TestResolveServices(t *testing.T) {
	total, matched, err := ResolveServices(testCatalog(), []uuid.UUID{washID, cutID})
	if err != nil {
		t.Fatalf("ResolveServices error: %v", err)
	}
	if total != 45 {
		t.Fatalf("total = %d, want 45", total)
	}
	if len(matched) != 2 || matched[0].Name != "Wash" || matched[1].Name != "Cut" {
		t.Fatalf("matched = %+v", matched)
	}

	reversed, _, err := ResolveServices(testCatalog(), []uuid.UUID{cutID, washID})
	if err != nil || reversed != total {
		t.Fatalf("order dependent total: %d vs %d (err=%v)", reversed, total, err)
	}

	twice, _, err := ResolveServices(testCatalog(), []uuid.UUID{cutID, cutID})
	if err != nil || twice != 60 {
		t.Fatalf("repeated id total = %d, want 60 (err=%v)", twice, err)
	}
}

func TestResolveServices_Errors(t *testing.T) {
	if _, _, err := ResolveServices(testCatalog(), nil); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("empty request err = %v, want InvalidRequest", err)
	}
	unknown := uuid.MustParse("00000000-0000-0000-0000-0000000000ff")
	if _, _, err := ResolveServices(testCatalog(), []uuid.UUID{cutID, unknown}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id err = %v, want NotFound", err)
	}
}

func TestValidateOperatingHours(t *testing.T) {
	day := at(0, 0)
	hours := WorkingHours{Start: "09:00", End: "17:00"}

	tests := []struct {
		name       string
		start, end time.Time
		wantErr    bool
	}{
		{name: "exact hours", start: at(9, 0), end: at(17, 0)},
		{name: "inside", start: at(10, 0), end: at(10, 30)},
		{name: "runs past closing", start: at(16, 45), end: at(17, 15), wantErr: true},
		{name: "starts before opening", start: at(8, 45), end: at(9, 15), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOperatingHours(day, tt.start, tt.end, hours)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrOutOfHours) {
				t.Fatalf("err = %v, want OutOfHours", err)
			}
			var dErr *Error
			if !errors.As(err, &dErr) {
				t.Fatalf("error type = %T", err)
			}
			if dErr.Details["salon_close"] != "17:00" || dErr.Details["requested_end"] != FormatClock(tt.end) {
				t.Fatalf("details = %v", dErr.Details)
			}
		})
	}
}

func TestValidateOperatingHours_BadHours(t *testing.T) {
	err := ValidateOperatingHours(at(0, 0), at(10, 0), at(11, 0), WorkingHours{Start: "18:00", End: "09:00"})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want InvalidRequest", err)
	}
}

func TestOverlapPolicies(t *testing.T) {
	existing := []Window{{Start: at(10, 0), End: at(10, 30)}}

	tests := []struct {
		name      string
		candidate Window
		halfOpen  bool
		inclusive bool
	}{
		{name: "overlapping tail", candidate: Window{Start: at(10, 15), End: at(10, 45)}, halfOpen: true, inclusive: true},
		{name: "contained", candidate: Window{Start: at(10, 5), End: at(10, 25)}, halfOpen: true, inclusive: true},
		{name: "covering", candidate: Window{Start: at(9, 0), End: at(11, 0)}, halfOpen: true, inclusive: true},
		{name: "back to back after", candidate: Window{Start: at(10, 30), End: at(11, 0)}, halfOpen: false, inclusive: true},
		{name: "back to back before", candidate: Window{Start: at(9, 30), End: at(10, 0)}, halfOpen: false, inclusive: true},
		{name: "disjoint", candidate: Window{Start: at(11, 0), End: at(11, 30)}, halfOpen: false, inclusive: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasConflict(existing, tt.candidate, OverlapHalfOpen); got != tt.halfOpen {
				t.Fatalf("half-open = %v, want %v", got, tt.halfOpen)
			}
			if got := HasConflict(existing, tt.candidate, OverlapInclusive); got != tt.inclusive {
				t.Fatalf("inclusive = %v, want %v", got, tt.inclusive)
			}
		})
	}
}

func TestFindConflictReturnsFirstMatch(t *testing.T) {
	existing := []Window{
		{Start: at(9, 0), End: at(9, 30)},
		{Start: at(10, 0), End: at(10, 30)},
		{Start: at(10, 30), End: at(11, 0)},
	}
	got, ok := FindConflict(existing, Window{Start: at(10, 15), End: at(10, 45)}, OverlapHalfOpen)
	if !ok || !got.Start.Equal(at(10, 0)) {
		t.Fatalf("FindConflict = %+v, %v", got, ok)
	}

	err := ConflictError(Window{Start: at(10, 15), End: at(10, 45)}, got)
	if !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("err = %v, want SlotConflict", err)
	}
}

func TestParseOverlapPolicy(t *testing.T) {
	for in, want := range map[string]OverlapPolicy{"": OverlapHalfOpen, "half-open": OverlapHalfOpen, "Inclusive": OverlapInclusive} {
		got, err := ParseOverlapPolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParseOverlapPolicy(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseOverlapPolicy("closed"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestErrorIsMatchesByKind(t *testing.T) {
	err := DuplicateBooking("taken", map[string]string{"time": "10:00", "day": "2026-03-14"})
	if !errors.Is(err, ErrDuplicateBooking) {
		t.Fatalf("errors.Is failed for %v", err)
	}
	if errors.Is(err, ErrSlotConflict) {
		t.Fatalf("kinds must not cross-match")
	}
	var dErr *Error
	if !errors.As(err, &dErr) {
		t.Fatalf("errors.As failed")
	}
	if keys := dErr.DetailKeys(); len(keys) != 2 || keys[0] != "day" {
		t.Fatalf("DetailKeys = %v", keys)
	}
}
