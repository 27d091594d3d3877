package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Service struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	PriceCents      int64     `json:"price_cents"`
	DurationMinutes int       `json:"duration_minutes"`
}

// WorkingHours are the daily open and close bounds in salon wall-clock time.
type WorkingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Bounds parses the stored HH:mm values and checks start < end.
func (h WorkingHours) Bounds() (Clock, Clock, error) {
	open, err := ParseClock(h.Start)
	if err != nil {
		return Clock{}, Clock{}, err
	}
	closing, err := ParseClock(h.End)
	if err != nil {
		return Clock{}, Clock{}, err
	}
	if open.Minutes() >= closing.Minutes() {
		return Clock{}, Clock{}, InvalidRequest(fmt.Sprintf("working hours start %s must be before end %s", h.Start, h.End))
	}
	return open, closing, nil
}

type Salon struct {
	bun.BaseModel `bun:"table:salons"`

	ID           uuid.UUID    `bun:"id,pk,type:uuid"`
	OwnerID      string       `bun:"owner_id,notnull"`
	Name         string       `bun:"name,notnull"`
	Email        string       `bun:"email"`
	Phone        string       `bun:"phone"`
	Address      string       `bun:"address"`
	Services     []Service    `bun:"services,type:jsonb,notnull"`
	WorkingHours WorkingHours `bun:"working_hours,type:jsonb,notnull"`
	CreatedAt    time.Time    `bun:"created_at,notnull"`
	UpdatedAt    time.Time    `bun:"updated_at,notnull"`
}

func (s *Salon) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if s.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			s.ID = id
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		s.UpdatedAt = now
	}
	return nil
}

func (s Salon) OwnedBy(userID string) bool {
	return userID != "" && s.OwnerID == userID
}

// ServiceNames maps booked service ids to names, skipping ids the salon no
// longer offers.
func (s Salon) ServiceNames(ids []uuid.UUID) []string {
	byID := make(map[uuid.UUID]string, len(s.Services))
	for _, svc := range s.Services {
		byID[svc.ID] = svc.Name
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			out = append(out, name)
		}
	}
	return out
}
