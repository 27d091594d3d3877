package bookings

import (
	"errors"

	"go.uber.org/zap"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/notify"
	"salonbook/backend/internal/store"
)

// Dispatcher hands notifications off for background delivery.
type Dispatcher interface {
	Dispatch(msg notify.Message)
}

type Repositories struct {
	Salons   store.SalonRepository
	Staff    store.StaffRepository
	Bookings store.BookingRepository
}

type Service struct {
	salons   store.SalonRepository
	staff    store.StaffRepository
	bookings store.BookingRepository
	notifier Dispatcher
	policy   domain.OverlapPolicy
	logger   *zap.Logger
}

func NewService(repos Repositories, notifier Dispatcher, policy domain.OverlapPolicy, logger *zap.Logger) *Service {
	if policy == "" {
		policy = domain.OverlapHalfOpen
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		salons:   repos.Salons,
		staff:    repos.Staff,
		bookings: repos.Bookings,
		notifier: notifier,
		policy:   policy,
		logger:   logger.With(zap.String("component", "bookings")),
	}
}

func (s *Service) Policy() domain.OverlapPolicy {
	return s.policy
}

// notFoundAs converts store.ErrNotFound into a client-facing NotFound error
// and passes any other error through.
func notFoundAs(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return domain.NotFound(msg)
	}
	return err
}

func (s *Service) dispatch(msg notify.Message) {
	if s.notifier == nil {
		return
	}
	if msg.Recipient == "" {
		s.logger.Debug("no recipient; skipping notification",
			zap.String("kind", string(msg.Kind)),
			zap.String("booking_id", msg.BookingID),
		)
		return
	}
	s.notifier.Dispatch(msg)
}
