package grpc

import "time"

type CreateBookingRequest struct {
	SalonID       string   `json:"salon_id"`
	Day           string   `json:"day"`
	Time          string   `json:"time"`
	ServiceIDs    []string `json:"service_ids"`
	StaffMemberID string   `json:"staff_member_id"`
}

type CreateBookingResponse struct {
	Booking *Booking `json:"booking"`
}

type UpdateBookingStatusRequest struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

type UpdateBookingStatusResponse struct {
	Booking *Booking `json:"booking"`
}

type ListSalonBookingsRequest struct {
	SalonID string `json:"salon_id"`
}

type ListBookingsByDayRequest struct {
	SalonID string `json:"salon_id"`
	Day     string `json:"day"`
}

type ListBookingsResponse struct {
	Bookings []*Booking `json:"bookings"`
}

// Booking is the wire form of a booking. Day is YYYY-MM-DD and the window
// bounds are HH:MM on that day.
type Booking struct {
	ID            string    `json:"id"`
	SalonID       string    `json:"salon_id"`
	StaffMemberID string    `json:"staff_member_id"`
	UserID        string    `json:"user_id"`
	ServiceIDs    []string  `json:"service_ids"`
	ServiceNames  []string  `json:"service_names,omitempty"`
	Day           string    `json:"day"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
