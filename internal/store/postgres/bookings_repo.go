package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/store"
)

const (
	uniqueViolation    = "23505"
	exclusionViolation = "23P01"

	bookingSlotConstraint   = "bookings_salon_slot_key"
	windowOverlapConstraint = "reserved_windows_no_overlap"
)

type BookingRepo struct {
	db *bun.DB
}

var _ store.Store = (*BookingRepo)(nil)

func NewBookingRepo(db *bun.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

type calendarTx struct {
	tx bun.Tx
}

func (r *BookingRepo) GetSalon(ctx context.Context, salonID uuid.UUID) (domain.Salon, error) {
	var s domain.Salon
	err := r.db.NewSelect().
		Model(&s).
		Where("id = ?", salonID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.Salon{}, notFound(err)
	}
	return s, nil
}

func (r *BookingRepo) GetStaffMember(ctx context.Context, staffMemberID uuid.UUID) (domain.StaffMember, error) {
	var m domain.StaffMember
	err := r.db.NewSelect().
		Model(&m).
		Where("id = ?", staffMemberID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.StaffMember{}, notFound(err)
	}

	var windows []domain.ReservedWindow
	err = r.db.NewSelect().
		Model(&windows).
		Where("staff_member_id = ?", staffMemberID).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return domain.StaffMember{}, err
	}
	m.Windows = windows
	return m, nil
}

func (r *BookingRepo) BookingExistsAt(ctx context.Context, salonID uuid.UUID, start time.Time) (bool, error) {
	return bookingExistsAt(ctx, r.db, salonID, start)
}

func (r *BookingRepo) GetBooking(ctx context.Context, bookingID uuid.UUID) (domain.Booking, error) {
	var b domain.Booking
	err := r.db.NewSelect().
		Model(&b).
		Where("id = ?", bookingID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.Booking{}, notFound(err)
	}
	return b, nil
}

func (r *BookingRepo) ListSalonBookings(ctx context.Context, salonID uuid.UUID) ([]domain.Booking, error) {
	var rows []domain.Booking
	err := r.db.NewSelect().
		Model(&rows).
		Where("salon_id = ?", salonID).
		OrderExpr("created_at DESC, id DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) ListSalonBookingsByDay(ctx context.Context, salonID uuid.UUID, day time.Time) ([]domain.Booking, error) {
	var rows []domain.Booking
	err := r.db.NewSelect().
		Model(&rows).
		Where("salon_id = ?", salonID).
		Where("day = ?::date", domain.FormatDay(day)).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) ReserveBooking(ctx context.Context, booking domain.Booking, policy domain.OverlapPolicy) (domain.Booking, error) {
	var out domain.Booking
	err := r.InStaffTransaction(ctx, booking.StaffMemberID, func(ctx context.Context, tx store.StaffCalendarTx) error {
		if err := store.EnsureSlotAvailable(ctx, tx, booking, policy); err != nil {
			return err
		}
		b, err := tx.InsertReservation(ctx, booking)
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return out, nil
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
	var out domain.Booking
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var b domain.Booking
		err := tx.NewSelect().
			Model(&b).
			Where("id = ?", bookingID).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			return notFound(err)
		}
		if b.Status != domain.StatusPending {
			return store.ErrStatusChanged
		}

		b.Status = status
		res, err := tx.NewUpdate().
			Model(&b).
			Column("status", "updated_at").
			WherePK().
			Where("status = ?", domain.StatusPending).
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return store.ErrStatusChanged
		}
		out = b
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return out, nil
}

// InStaffTransaction runs fn in a transaction holding an advisory lock on
// the staff member, serializing every reservation for that person.
func (r *BookingRepo) InStaffTransaction(ctx context.Context, staffMemberID uuid.UUID, fn func(ctx context.Context, tx store.StaffCalendarTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockStaffCalendar(ctx, tx, staffMemberID); err != nil {
			return err
		}
		return fn(ctx, calendarTx{tx: tx})
	})
}

func lockStaffCalendar(ctx context.Context, tx bun.Tx, staffMemberID uuid.UUID) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", "staff:"+staffMemberID.String()).Exec(ctx)
	return err
}

func (r calendarTx) BookingExistsAt(ctx context.Context, salonID uuid.UUID, start time.Time) (bool, error) {
	return bookingExistsAt(ctx, r.tx, salonID, start)
}

func (r calendarTx) ListReservedWindows(ctx context.Context, staffMemberID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.ReservedWindow, error) {
	var rows []domain.ReservedWindow
	err := r.tx.NewSelect().
		Model(&rows).
		Where("staff_member_id = ?", staffMemberID).
		Where("start_time < ?", windowEnd).
		Where("end_time > ?", windowStart).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// InsertReservation writes the booking and its reserved window. The unique
// slot key and the exclusion constraint back up the checks done under lock.
func (r calendarTx) InsertReservation(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	b := booking
	b.Status = domain.StatusPending
	if _, err := r.tx.NewInsert().Model(&b).Exec(ctx); err != nil {
		return domain.Booking{}, mapConstraintError(err)
	}

	w := domain.ReservedWindow{
		StaffMemberID: b.StaffMemberID,
		BookingID:     b.ID,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
	}
	if _, err := r.tx.NewInsert().Model(&w).Exec(ctx); err != nil {
		return domain.Booking{}, mapConstraintError(err)
	}
	return b, nil
}

func bookingExistsAt(ctx context.Context, db bun.IDB, salonID uuid.UUID, start time.Time) (bool, error) {
	return db.NewSelect().
		Model((*domain.Booking)(nil)).
		Where("salon_id = ?", salonID).
		Where("start_time = ?", start).
		Exists(ctx)
}

func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == exclusionViolation && pgErr.ConstraintName == windowOverlapConstraint:
		return &store.WindowConflictError{}
	case pgErr.Code == uniqueViolation && pgErr.ConstraintName == bookingSlotConstraint:
		return store.ErrDuplicate
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}
