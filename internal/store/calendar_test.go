package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"salonbook/backend/internal/domain"
)

type fakeStaffCalendarTx struct {
	bookingExistsAtFn     func(ctx context.Context, salonID uuid.UUID, start time.Time) (bool, error)
	listReservedWindowsFn func(ctx context.Context, staffMemberID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.ReservedWindow, error)
}

func (f *fakeStaffCalendarTx) BookingExistsAt(ctx context.Context, salonID uuid.UUID, start time.Time) (bool, error) {
	if f.bookingExistsAtFn == nil {
		return false, nil
	}
	return f.bookingExistsAtFn(ctx, salonID, start)
}

func (f *fakeStaffCalendarTx) ListReservedWindows(ctx context.Context, staffMemberID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.ReservedWindow, error) {
	if f.listReservedWindowsFn == nil {
		return nil, nil
	}
	return f.listReservedWindowsFn(ctx, staffMemberID, windowStart, windowEnd)
}

func (f *fakeStaffCalendarTx) InsertReservation(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	panic("not used")
}

func clock(h, m int) time.Time {
	return time.Date(2026, 3, 14, h, m, 0, 0, time.UTC)
}

func bookingAt(h, m, minutes int) domain.Booking {
	return domain.Booking{
		SalonID:       uuid.MustParse("00000000-0000-0000-0000-000000000a01"),
		StaffMemberID: uuid.MustParse("00000000-0000-0000-0000-000000000b01"),
		StartTime:     clock(h, m),
		EndTime:       clock(h, m).Add(time.Duration(minutes) * time.Minute),
	}
}

func TestEnsureSlotAvailable(t *testing.T) {
	existing := []domain.ReservedWindow{{StartTime: clock(10, 0), EndTime: clock(10, 30)}}
	windows := func(ctx context.Context, staffMemberID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.ReservedWindow, error) {
		return existing, nil
	}

	t.Run("duplicate wins over overlap", func(t *testing.T) {
		tx := &fakeStaffCalendarTx{
			bookingExistsAtFn: func(ctx context.Context, salonID uuid.UUID, start time.Time) (bool, error) {
				return true, nil
			},
			listReservedWindowsFn: windows,
		}
		err := EnsureSlotAvailable(context.Background(), tx, bookingAt(10, 0, 30), domain.OverlapHalfOpen)
		if !errors.Is(err, ErrDuplicate) {
			t.Fatalf("err = %v, want %v", err, ErrDuplicate)
		}
	})

	t.Run("overlap reports existing window", func(t *testing.T) {
		tx := &fakeStaffCalendarTx{listReservedWindowsFn: windows}
		err := EnsureSlotAvailable(context.Background(), tx, bookingAt(10, 15, 30), domain.OverlapHalfOpen)
		var wErr *WindowConflictError
		if !errors.As(err, &wErr) {
			t.Fatalf("err = %v, want *WindowConflictError", err)
		}
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("WindowConflictError must match ErrConflict")
		}
		if !wErr.Existing.Start.Equal(clock(10, 0)) {
			t.Fatalf("existing = %+v", wErr.Existing)
		}
	})

	t.Run("back to back depends on policy", func(t *testing.T) {
		tx := &fakeStaffCalendarTx{listReservedWindowsFn: windows}
		if err := EnsureSlotAvailable(context.Background(), tx, bookingAt(10, 30, 30), domain.OverlapHalfOpen); err != nil {
			t.Fatalf("half-open err = %v", err)
		}
		if err := EnsureSlotAvailable(context.Background(), tx, bookingAt(10, 30, 30), domain.OverlapInclusive); !errors.Is(err, ErrConflict) {
			t.Fatalf("inclusive err = %v, want %v", err, ErrConflict)
		}
	})

	t.Run("lookup window is widened", func(t *testing.T) {
		var gotStart, gotEnd time.Time
		tx := &fakeStaffCalendarTx{
			listReservedWindowsFn: func(ctx context.Context, staffMemberID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.ReservedWindow, error) {
				gotStart, gotEnd = windowStart, windowEnd
				return nil, nil
			},
		}
		if err := EnsureSlotAvailable(context.Background(), tx, bookingAt(11, 0, 30), domain.OverlapInclusive); err != nil {
			t.Fatalf("err = %v", err)
		}
		if !gotStart.Before(clock(11, 0)) || !gotEnd.After(clock(11, 30)) {
			t.Fatalf("lookup = [%v, %v)", gotStart, gotEnd)
		}
	})
}
