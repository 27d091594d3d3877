package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BookingStatus string

const (
	StatusPending  BookingStatus = "pending"
	StatusApproved BookingStatus = "approved"
	StatusRejected BookingStatus = "rejected"
)

func (s BookingStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID            uuid.UUID     `bun:"id,pk,type:uuid"`
	SalonID       uuid.UUID     `bun:"salon_id,type:uuid,notnull"`
	StaffMemberID uuid.UUID     `bun:"staff_member_id,type:uuid,notnull"`
	UserID        string        `bun:"user_id,notnull"`
	UserEmail     string        `bun:"user_email"`
	ServiceIDs    []uuid.UUID   `bun:"service_ids,type:jsonb,notnull"`
	Day           time.Time     `bun:"day,type:date,notnull"`
	StartTime     time.Time     `bun:"start_time,notnull"`
	EndTime       time.Time     `bun:"end_time,notnull"`
	Status        BookingStatus `bun:"status,notnull"`
	CreatedAt     time.Time     `bun:"created_at,notnull"`
	UpdatedAt     time.Time     `bun:"updated_at,notnull"`
}

func (b *Booking) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if b.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			b.ID = id
		}
		if b.Status == "" {
			b.Status = StatusPending
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		if b.UpdatedAt.IsZero() {
			b.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		b.UpdatedAt = now
	}
	return nil
}

func (b Booking) Window() Window {
	return Window{Start: b.StartTime.UTC(), End: b.EndTime.UTC()}
}
