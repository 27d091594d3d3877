package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"salonbook/backend/internal/domain"
)

type SalonRepository interface {
	GetSalon(ctx context.Context, salonID uuid.UUID) (domain.Salon, error)
}

// StaffRepository loads a staff member together with every window already
// reserved for them.
type StaffRepository interface {
	GetStaffMember(ctx context.Context, staffMemberID uuid.UUID) (domain.StaffMember, error)
}

type BookingRepository interface {
	BookingExistsAt(ctx context.Context, salonID uuid.UUID, start time.Time) (bool, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (domain.Booking, error)
	ListSalonBookings(ctx context.Context, salonID uuid.UUID) ([]domain.Booking, error)
	ListSalonBookingsByDay(ctx context.Context, salonID uuid.UUID, day time.Time) ([]domain.Booking, error)

	// ReserveBooking re-checks the duplicate and overlap rules while holding
	// the staff member's lock and commits the reserved window and the booking
	// together. It returns ErrDuplicate or a *WindowConflictError when the
	// slot was taken concurrently.
	ReserveBooking(ctx context.Context, booking domain.Booking, policy domain.OverlapPolicy) (domain.Booking, error)

	// UpdateStatus moves a pending booking to status. It returns
	// ErrStatusChanged when the booking is no longer pending.
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status domain.BookingStatus) (domain.Booking, error)
}

type Store interface {
	SalonRepository
	StaffRepository
	BookingRepository
}
