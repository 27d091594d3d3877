package bookings

import (
	"context"

	"github.com/google/uuid"

	"salonbook/backend/internal/auth"
	"salonbook/backend/internal/domain"
)

// BookingDetails is a booking with its service ids resolved against the
// salon's current catalog.
type BookingDetails struct {
	Booking      domain.Booking
	ServiceNames []string
}

// ListSalonBookings returns every booking of a salon, newest first. Only the
// owner may list them.
func (s *Service) ListSalonBookings(ctx context.Context, actor auth.Actor, salonID uuid.UUID) ([]BookingDetails, error) {
	salon, err := s.ownedSalon(ctx, actor, salonID)
	if err != nil {
		return nil, err
	}
	rows, err := s.bookings.ListSalonBookings(ctx, salon.ID)
	if err != nil {
		return nil, err
	}
	return withServiceNames(salon, rows), nil
}

// ListBookingsByDay returns a salon's bookings on one day ordered by start
// time.
func (s *Service) ListBookingsByDay(ctx context.Context, actor auth.Actor, salonID uuid.UUID, day string) ([]BookingDetails, error) {
	d, err := domain.ParseDay(day)
	if err != nil {
		return nil, err
	}
	salon, err := s.ownedSalon(ctx, actor, salonID)
	if err != nil {
		return nil, err
	}
	rows, err := s.bookings.ListSalonBookingsByDay(ctx, salon.ID, d)
	if err != nil {
		return nil, err
	}
	return withServiceNames(salon, rows), nil
}

func (s *Service) ownedSalon(ctx context.Context, actor auth.Actor, salonID uuid.UUID) (domain.Salon, error) {
	if salonID == uuid.Nil {
		return domain.Salon{}, domain.MalformedInput("salon_id is required")
	}
	salon, err := s.salons.GetSalon(ctx, salonID)
	if err != nil {
		return domain.Salon{}, notFoundAs(err, "salon not found")
	}
	if err := actor.CanManageSalon(salon); err != nil {
		return domain.Salon{}, err
	}
	return salon, nil
}

func withServiceNames(salon domain.Salon, rows []domain.Booking) []BookingDetails {
	out := make([]BookingDetails, 0, len(rows))
	for _, b := range rows {
		out = append(out, BookingDetails{Booking: b, ServiceNames: salon.ServiceNames(b.ServiceIDs)})
	}
	return out
}
