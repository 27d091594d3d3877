package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"salonbook/backend/internal/auth"
	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/store"
)

// UpdateStatus moves a pending booking to approved or rejected on behalf of
// the salon owner. A booking changes status at most once.
func (s *Service) UpdateStatus(ctx context.Context, actor auth.Actor, bookingID uuid.UUID, status string) (domain.Booking, error) {
	target := domain.BookingStatus(strings.ToLower(strings.TrimSpace(status)))
	if target != domain.StatusApproved && target != domain.StatusRejected {
		return domain.Booking{}, domain.InvalidRequest(fmt.Sprintf("invalid status %q: must be approved or rejected", status))
	}
	if bookingID == uuid.Nil {
		return domain.Booking{}, domain.MalformedInput("booking_id is required")
	}

	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, notFoundAs(err, "booking not found")
	}
	salon, err := s.salons.GetSalon(ctx, booking.SalonID)
	if err != nil {
		return domain.Booking{}, notFoundAs(err, "salon not found")
	}
	if err := actor.CanManageSalon(salon); err != nil {
		return domain.Booking{}, err
	}

	if err := checkTransition(booking.Status, target); err != nil {
		return domain.Booking{}, err
	}

	updated, err := s.bookings.UpdateStatus(ctx, booking.ID, target)
	if err != nil {
		if errors.Is(err, store.ErrStatusChanged) {
			current, gerr := s.bookings.GetBooking(ctx, booking.ID)
			if gerr != nil {
				return domain.Booking{}, notFoundAs(gerr, "booking not found")
			}
			if terr := checkTransition(current.Status, target); terr != nil {
				return domain.Booking{}, terr
			}
			return domain.Booking{}, domain.InvalidTransition("booking status changed concurrently")
		}
		return domain.Booking{}, notFoundAs(err, "booking not found")
	}

	s.logger.Info("booking status updated",
		zap.String("booking_id", updated.ID.String()),
		zap.String("salon_id", salon.ID.String()),
		zap.String("status", string(updated.Status)),
		zap.String("actor_id", actor.UserID),
	)

	s.dispatch(statusChangedMessage(salon, updated, salon.ServiceNames(updated.ServiceIDs)))
	return updated, nil
}

func checkTransition(current, target domain.BookingStatus) error {
	if current == target {
		return domain.InvalidTransition(fmt.Sprintf("booking status is already %s", current))
	}
	if current.Terminal() {
		return domain.InvalidTransition(fmt.Sprintf("booking is already %s", current))
	}
	return nil
}
