package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"salonbook/backend/internal/auth"
	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/store"
)

type CreateInput struct {
	Actor         auth.Actor
	SalonID       uuid.UUID
	Day           string
	Time          string
	ServiceIDs    []uuid.UUID
	StaffMemberID uuid.UUID
}

// CreateBooking validates the request against the salon's catalog, the
// staff member's calendar and the salon's hours, then reserves the window
// and records the booking in one store operation. Every rejection happens
// before anything is written.
func (s *Service) CreateBooking(ctx context.Context, in CreateInput) (domain.Booking, error) {
	day, err := domain.ParseDay(in.Day)
	if err != nil {
		return domain.Booking{}, err
	}
	clock, err := domain.ParseClock(in.Time)
	if err != nil {
		return domain.Booking{}, err
	}
	if in.SalonID == uuid.Nil {
		return domain.Booking{}, domain.MalformedInput("salon_id is required")
	}
	if in.StaffMemberID == uuid.Nil {
		return domain.Booking{}, domain.MalformedInput("staff_member_id is required")
	}

	if err := in.Actor.CanBook(); err != nil {
		return domain.Booking{}, err
	}

	salon, err := s.salons.GetSalon(ctx, in.SalonID)
	if err != nil {
		return domain.Booking{}, notFoundAs(err, "salon not found")
	}

	duration, services, err := domain.ResolveServices(salon.Services, in.ServiceIDs)
	if err != nil {
		return domain.Booking{}, err
	}

	start := domain.Combine(day, clock)
	window := domain.Window{Start: start, End: domain.AddMinutes(start, duration)}

	exists, err := s.bookings.BookingExistsAt(ctx, salon.ID, window.Start)
	if err != nil {
		return domain.Booking{}, err
	}
	if exists {
		return domain.Booking{}, duplicateError(window)
	}

	staff, err := s.staff.GetStaffMember(ctx, in.StaffMemberID)
	if err != nil {
		return domain.Booking{}, notFoundAs(err, "staff member not found")
	}
	if staff.SalonID != salon.ID {
		return domain.Booking{}, domain.NotFound("staff member not found in this salon")
	}

	if existing, ok := domain.FindConflict(staff.ReservedWindows(), window, s.policy); ok {
		return domain.Booking{}, domain.ConflictError(window, existing)
	}

	if err := domain.ValidateOperatingHours(day, window.Start, window.End, salon.WorkingHours); err != nil {
		return domain.Booking{}, err
	}

	booking, err := s.bookings.ReserveBooking(ctx, domain.Booking{
		SalonID:       salon.ID,
		StaffMemberID: staff.ID,
		UserID:        in.Actor.UserID,
		UserEmail:     in.Actor.Email,
		ServiceIDs:    append([]uuid.UUID(nil), in.ServiceIDs...),
		Day:           day,
		StartTime:     window.Start,
		EndTime:       window.End,
		Status:        domain.StatusPending,
	}, s.policy)
	if err != nil {
		return domain.Booking{}, s.reservationError(err, window)
	}

	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("salon_id", salon.ID.String()),
		zap.String("staff_member_id", staff.ID.String()),
		zap.String("user_id", booking.UserID),
		zap.Time("start_time", booking.StartTime),
		zap.Time("end_time", booking.EndTime),
	)

	s.dispatch(bookingPlacedMessage(salon, booking, serviceNames(services)))
	return booking, nil
}

// reservationError maps losing a race inside ReserveBooking onto the same
// errors the pre-checks produce.
func (s *Service) reservationError(err error, window domain.Window) error {
	var wErr *store.WindowConflictError
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return duplicateError(window)
	case errors.As(err, &wErr):
		if wErr.Existing.Valid() {
			return domain.ConflictError(window, wErr.Existing)
		}
		return domain.SlotConflict("staff member is already booked for this time", windowDetails(window))
	case errors.Is(err, store.ErrConflict):
		return domain.SlotConflict("staff member is already booked for this time", windowDetails(window))
	case errors.Is(err, store.ErrNotFound):
		return domain.NotFound("staff member not found")
	}
	return fmt.Errorf("reserve booking: %w", err)
}

func duplicateError(window domain.Window) error {
	return domain.DuplicateBooking(
		fmt.Sprintf("a booking already exists on %s at %s", domain.FormatDay(window.Start), domain.FormatClock(window.Start)),
		map[string]string{
			"day":  domain.FormatDay(window.Start),
			"time": domain.FormatClock(window.Start),
		},
	)
}

func windowDetails(window domain.Window) map[string]string {
	return map[string]string{
		"day":             domain.FormatDay(window.Start),
		"requested_start": domain.FormatClock(window.Start),
		"requested_end":   domain.FormatClock(window.End),
	}
}
