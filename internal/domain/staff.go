package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type StaffMember struct {
	bun.BaseModel `bun:"table:staff_members"`

	ID        uuid.UUID        `bun:"id,pk,type:uuid"`
	SalonID   uuid.UUID        `bun:"salon_id,type:uuid,notnull"`
	Name      string           `bun:"name,notnull"`
	Email     string           `bun:"email"`
	Phone     string           `bun:"phone"`
	Windows   []ReservedWindow `bun:"-"`
	CreatedAt time.Time        `bun:"created_at,notnull"`
	UpdatedAt time.Time        `bun:"updated_at,notnull"`
}

func (m *StaffMember) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if m.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			m.ID = id
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		if m.UpdatedAt.IsZero() {
			m.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		m.UpdatedAt = now
	}
	return nil
}

func (m StaffMember) ReservedWindows() []Window {
	out := make([]Window, 0, len(m.Windows))
	for _, w := range m.Windows {
		out = append(out, w.Window())
	}
	return out
}

// ReservedWindow is a span committed to a staff member. Windows are created
// together with their booking and are never removed.
type ReservedWindow struct {
	bun.BaseModel `bun:"table:reserved_windows"`

	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	StaffMemberID uuid.UUID `bun:"staff_member_id,type:uuid,notnull"`
	BookingID     uuid.UUID `bun:"booking_id,type:uuid,notnull"`
	StartTime     time.Time `bun:"start_time,notnull"`
	EndTime       time.Time `bun:"end_time,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
}

func (w *ReservedWindow) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); !ok {
		return nil
	}
	if w.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		w.ID = id
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	return nil
}

func (w ReservedWindow) Window() Window {
	return Window{Start: w.StartTime.UTC(), End: w.EndTime.UTC()}
}
