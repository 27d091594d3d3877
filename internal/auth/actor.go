package auth

import (
	"context"

	"salonbook/backend/internal/domain"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Email  string
	Role   Role
}

// CanBook reports whether the actor may place bookings. Administrators are
// barred from booking.
func (a Actor) CanBook() error {
	if a.UserID == "" {
		return domain.Unauthenticated("authentication required")
	}
	if a.Role == RoleAdmin {
		return domain.Forbidden("administrators cannot place bookings")
	}
	return nil
}

// CanManageSalon reports whether the actor owns salon.
func (a Actor) CanManageSalon(salon domain.Salon) error {
	if a.UserID == "" {
		return domain.Unauthenticated("authentication required")
	}
	if !salon.OwnedBy(a.UserID) {
		return domain.Forbidden("only the salon owner can manage its bookings")
	}
	return nil
}

type actorKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
