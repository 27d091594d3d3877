package bookings

import (
	"fmt"
	"strings"
	"time"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/notify"
)

const placedSubject = "Booking Placed Successfully"

func bookingPlacedMessage(salon domain.Salon, b domain.Booking, services []string) notify.Message {
	return notify.Message{
		Kind:      notify.KindBookingPlaced,
		BookingID: b.ID.String(),
		Recipient: b.UserEmail,
		Subject:   placedSubject,
		Body:      bookingBody("Your booking request has been received and is awaiting the salon's confirmation.", salon, b, services),
		CreatedAt: time.Now().UTC(),
	}
}

func statusChangedMessage(salon domain.Salon, b domain.Booking, services []string) notify.Message {
	return notify.Message{
		Kind:      notify.KindStatusChanged,
		BookingID: b.ID.String(),
		Recipient: b.UserEmail,
		Subject:   fmt.Sprintf("Your booking at %s has been %s.", salon.Name, b.Status),
		Body:      bookingBody("Booking details:", salon, b, services),
		CreatedAt: time.Now().UTC(),
	}
}

func bookingBody(intro string, salon domain.Salon, b domain.Booking, services []string) string {
	var sb strings.Builder
	sb.WriteString(intro)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Salon: %s\n", salon.Name)
	if salon.Address != "" {
		fmt.Fprintf(&sb, "Address: %s\n", salon.Address)
	}
	if salon.Phone != "" {
		fmt.Fprintf(&sb, "Phone: %s\n", salon.Phone)
	}
	fmt.Fprintf(&sb, "Services: %s\n", strings.ToUpper(strings.Join(services, ", ")))
	fmt.Fprintf(&sb, "Date: %s\n", domain.FormatDay(b.Day))
	fmt.Fprintf(&sb, "Time: %s-%s\n", domain.FormatClock(b.StartTime), domain.FormatClock(b.EndTime))
	fmt.Fprintf(&sb, "Status: %s\n", strings.ToUpper(string(b.Status)))
	if salon.Email != "" {
		fmt.Fprintf(&sb, "\nYou can contact the salon at %s for any queries.\n", salon.Email)
	}
	return sb.String()
}

func serviceNames(services []domain.Service) []string {
	out := make([]string, 0, len(services))
	for _, svc := range services {
		out = append(out, svc.Name)
	}
	return out
}
