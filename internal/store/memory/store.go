// Package memory is an in-process store used by the memory driver and by
// tests that exercise concurrent reservations.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/store"
)

type Store struct {
	mu       sync.Mutex
	salons   map[uuid.UUID]domain.Salon
	staff    map[uuid.UUID]domain.StaffMember
	windows  map[uuid.UUID][]domain.ReservedWindow
	bookings map[uuid.UUID]domain.Booking
	now      func() time.Time
}

func New() *Store {
	return &Store{
		salons:   make(map[uuid.UUID]domain.Salon),
		staff:    make(map[uuid.UUID]domain.StaffMember),
		windows:  make(map[uuid.UUID][]domain.ReservedWindow),
		bookings: make(map[uuid.UUID]domain.Booking),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var _ store.Store = (*Store)(nil)

func (s *Store) PutSalon(salon domain.Salon) domain.Salon {
	s.mu.Lock()
	defer s.mu.Unlock()
	if salon.ID == uuid.Nil {
		salon.ID = newID()
	}
	salon.Services = append([]domain.Service(nil), salon.Services...)
	s.salons[salon.ID] = salon
	return salon
}

func (s *Store) PutStaffMember(m domain.StaffMember) domain.StaffMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = newID()
	}
	m.Windows = nil
	s.staff[m.ID] = m
	return m
}

func (s *Store) GetSalon(ctx context.Context, salonID uuid.UUID) (domain.Salon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	salon, ok := s.salons[salonID]
	if !ok {
		return domain.Salon{}, store.ErrNotFound
	}
	salon.Services = append([]domain.Service(nil), salon.Services...)
	return salon, nil
}

func (s *Store) GetStaffMember(ctx context.Context, staffMemberID uuid.UUID) (domain.StaffMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.staff[staffMemberID]
	if !ok {
		return domain.StaffMember{}, store.ErrNotFound
	}
	m.Windows = append([]domain.ReservedWindow(nil), s.windows[staffMemberID]...)
	return m, nil
}

func (s *Store) BookingExistsAt(ctx context.Context, salonID uuid.UUID, start time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookingExistsAt(salonID, start), nil
}

func (s *Store) GetBooking(ctx context.Context, bookingID uuid.UUID) (domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return domain.Booking{}, store.ErrNotFound
	}
	return b, nil
}

func (s *Store) ListSalonBookings(ctx context.Context, salonID uuid.UUID) ([]domain.Booking, error) {
	rows := s.filterBookings(func(b domain.Booking) bool { return b.SalonID == salonID })
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID.String() > rows[j].ID.String()
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return rows, nil
}

func (s *Store) ListSalonBookingsByDay(ctx context.Context, salonID uuid.UUID, day time.Time) ([]domain.Booking, error) {
	want := domain.FormatDay(day)
	rows := s.filterBookings(func(b domain.Booking) bool {
		return b.SalonID == salonID && domain.FormatDay(b.Day) == want
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].StartTime.Before(rows[j].StartTime) })
	return rows, nil
}

func (s *Store) ReserveBooking(ctx context.Context, booking domain.Booking, policy domain.OverlapPolicy) (domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := calendarTx{s: s}
	if err := store.EnsureSlotAvailable(ctx, tx, booking, policy); err != nil {
		return domain.Booking{}, err
	}
	return tx.InsertReservation(ctx, booking)
}

func (s *Store) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return domain.Booking{}, store.ErrNotFound
	}
	if b.Status != domain.StatusPending {
		return domain.Booking{}, store.ErrStatusChanged
	}
	b.Status = status
	b.UpdatedAt = s.now()
	s.bookings[bookingID] = b
	return b, nil
}

func (s *Store) filterBookings(keep func(domain.Booking) bool) []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Booking, 0)
	for _, b := range s.bookings {
		if keep(b) {
			b.ServiceIDs = append([]uuid.UUID(nil), b.ServiceIDs...)
			out = append(out, b)
		}
	}
	return out
}

func (s *Store) bookingExistsAt(salonID uuid.UUID, start time.Time) bool {
	for _, b := range s.bookings {
		if b.SalonID == salonID && b.StartTime.Equal(start) {
			return true
		}
	}
	return false
}

// calendarTx is only used while s.mu is held.
type calendarTx struct {
	s *Store
}

func (t calendarTx) BookingExistsAt(ctx context.Context, salonID uuid.UUID, start time.Time) (bool, error) {
	return t.s.bookingExistsAt(salonID, start), nil
}

func (t calendarTx) ListReservedWindows(ctx context.Context, staffMemberID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.ReservedWindow, error) {
	var out []domain.ReservedWindow
	for _, w := range t.s.windows[staffMemberID] {
		if w.StartTime.Before(windowEnd) && w.EndTime.After(windowStart) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (t calendarTx) InsertReservation(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	if _, ok := t.s.staff[booking.StaffMemberID]; !ok {
		return domain.Booking{}, store.ErrNotFound
	}
	now := t.s.now()
	b := booking
	if b.ID == uuid.Nil {
		b.ID = newID()
	}
	b.Status = domain.StatusPending
	b.ServiceIDs = append([]uuid.UUID(nil), booking.ServiceIDs...)
	b.CreatedAt = now
	b.UpdatedAt = now
	t.s.bookings[b.ID] = b

	w := domain.ReservedWindow{
		ID:            newID(),
		StaffMemberID: b.StaffMemberID,
		BookingID:     b.ID,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		CreatedAt:     now,
	}
	t.s.windows[b.StaffMemberID] = append(t.s.windows[b.StaffMemberID], w)
	return b, nil
}

func newID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}
