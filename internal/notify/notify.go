// Package notify delivers booking notifications. Delivery is best effort:
// failures are logged and never reach the caller that triggered them.
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Kind string

const (
	KindBookingPlaced Kind = "booking.placed"
	KindStatusChanged Kind = "booking.status_changed"
)

type Message struct {
	Kind      Kind      `json:"kind"`
	BookingID string    `json:"booking_id"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// LogNotifier writes messages to the log instead of delivering them.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With(zap.String("component", "log_notifier"))}
}

func (n *LogNotifier) Send(ctx context.Context, msg Message) error {
	n.logger.Info("notification",
		zap.String("kind", string(msg.Kind)),
		zap.String("booking_id", msg.BookingID),
		zap.String("recipient", msg.Recipient),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
