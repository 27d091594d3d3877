package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"salonbook/backend/internal/domain"
)

// StaffCalendarTx is the view of a staff member's calendar available inside
// a locked reservation transaction.
type StaffCalendarTx interface {
	BookingExistsAt(ctx context.Context, salonID uuid.UUID, start time.Time) (bool, error)
	ListReservedWindows(ctx context.Context, staffMemberID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.ReservedWindow, error)
	InsertReservation(ctx context.Context, booking domain.Booking) (domain.Booking, error)
}

// EnsureSlotAvailable applies the duplicate and overlap rules to booking
// against the state visible through tx.
func EnsureSlotAvailable(ctx context.Context, tx StaffCalendarTx, booking domain.Booking, policy domain.OverlapPolicy) error {
	exists, err := tx.BookingExistsAt(ctx, booking.SalonID, booking.StartTime)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicate
	}

	candidate := booking.Window()
	// Touching windows matter under the inclusive policy, so widen the lookup
	// by a minute on each side and let the policy decide.
	rows, err := tx.ListReservedWindows(ctx, booking.StaffMemberID, candidate.Start.Add(-time.Minute), candidate.End.Add(time.Minute))
	if err != nil {
		return err
	}
	existing := make([]domain.Window, 0, len(rows))
	for _, r := range rows {
		existing = append(existing, r.Window())
	}
	if w, ok := domain.FindConflict(existing, candidate, policy); ok {
		return &WindowConflictError{Existing: w}
	}
	return nil
}
