package bookings

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/notify"
)

type fakeSalons struct {
	getSalonFn func(ctx context.Context, salonID uuid.UUID) (domain.Salon, error)
}

func (f *fakeSalons) GetSalon(ctx context.Context, salonID uuid.UUID) (domain.Salon, error) {
	if f.getSalonFn == nil {
		panic("GetSalon not configured")
	}
	return f.getSalonFn(ctx, salonID)
}

type fakeStaff struct {
	getStaffMemberFn func(ctx context.Context, staffMemberID uuid.UUID) (domain.StaffMember, error)
}

func (f *fakeStaff) GetStaffMember(ctx context.Context, staffMemberID uuid.UUID) (domain.StaffMember, error) {
	if f.getStaffMemberFn == nil {
		panic("GetStaffMember not configured")
	}
	return f.getStaffMemberFn(ctx, staffMemberID)
}

type fakeBookings struct {
	bookingExistsAtFn        func(ctx context.Context, salonID uuid.UUID, start time.Time) (bool, error)
	getBookingFn             func(ctx context.Context, bookingID uuid.UUID) (domain.Booking, error)
	listSalonBookingsFn      func(ctx context.Context, salonID uuid.UUID) ([]domain.Booking, error)
	listSalonBookingsByDayFn func(ctx context.Context, salonID uuid.UUID, day time.Time) ([]domain.Booking, error)
	reserveBookingFn         func(ctx context.Context, booking domain.Booking, policy domain.OverlapPolicy) (domain.Booking, error)
	updateStatusFn           func(ctx context.Context, bookingID uuid.UUID, status domain.BookingStatus) (domain.Booking, error)
}

func (f *fakeBookings) BookingExistsAt(ctx context.Context, salonID uuid.UUID, start time.Time) (bool, error) {
	if f.bookingExistsAtFn == nil {
		panic("BookingExistsAt not configured")
	}
	return f.bookingExistsAtFn(ctx, salonID, start)
}

func (f *fakeBookings) GetBooking(ctx context.Context, bookingID uuid.UUID) (domain.Booking, error) {
	if f.getBookingFn == nil {
		panic("GetBooking not configured")
	}
	return f.getBookingFn(ctx, bookingID)
}

func (f *fakeBookings) ListSalonBookings(ctx context.Context, salonID uuid.UUID) ([]domain.Booking, error) {
	if f.listSalonBookingsFn == nil {
		panic("ListSalonBookings not configured")
	}
	return f.listSalonBookingsFn(ctx, salonID)
}

func (f *fakeBookings) ListSalonBookingsByDay(ctx context.Context, salonID uuid.UUID, day time.Time) ([]domain.Booking, error) {
	if f.listSalonBookingsByDayFn == nil {
		panic("ListSalonBookingsByDay not configured")
	}
	return f.listSalonBookingsByDayFn(ctx, salonID, day)
}

func (f *fakeBookings) ReserveBooking(ctx context.Context, booking domain.Booking, policy domain.OverlapPolicy) (domain.Booking, error) {
	if f.reserveBookingFn == nil {
		panic("ReserveBooking not configured")
	}
	return f.reserveBookingFn(ctx, booking, policy)
}

func (f *fakeBookings) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
	if f.updateStatusFn == nil {
		panic("UpdateStatus not configured")
	}
	return f.updateStatusFn(ctx, bookingID, status)
}

type recordingDispatcher struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (r *recordingDispatcher) Dispatch(msg notify.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recordingDispatcher) messages() []notify.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Message(nil), r.msgs...)
}

var (
	testSalonID = uuid.MustParse("00000000-0000-0000-0000-000000000a01")
	testStaffID = uuid.MustParse("00000000-0000-0000-0000-000000000b01")
	cutID       = uuid.MustParse("00000000-0000-0000-0000-0000000000c1")
	colorID     = uuid.MustParse("00000000-0000-0000-0000-0000000000c2")
	fullDayID   = uuid.MustParse("00000000-0000-0000-0000-0000000000c3")
)

func testSalon() domain.Salon {
	return domain.Salon{
		ID:      testSalonID,
		OwnerID: "owner-1",
		Name:    "Shear Joy",
		Email:   "desk@shearjoy.example",
		Services: []domain.Service{
			{ID: cutID, Name: "Cut", DurationMinutes: 30},
			{ID: colorID, Name: "Color", DurationMinutes: 45},
			{ID: fullDayID, Name: "Full Day", DurationMinutes: 480},
		},
		WorkingHours: domain.WorkingHours{Start: "09:00", End: "17:00"},
	}
}

func at(h, m int) time.Time {
	return time.Date(2024, 6, 1, h, m, 0, 0, time.UTC)
}

func staffWith(windows ...domain.Window) domain.StaffMember {
	m := domain.StaffMember{ID: testStaffID, SalonID: testSalonID, Name: "Ada"}
	for _, w := range windows {
		m.Windows = append(m.Windows, domain.ReservedWindow{StaffMemberID: testStaffID, StartTime: w.Start, EndTime: w.End})
	}
	return m
}
