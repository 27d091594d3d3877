package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Dispatcher sends notifications on background goroutines, each bounded by
// a timeout and paced by a shared rate limiter.
type Dispatcher struct {
	next    Notifier
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(next Notifier, timeout time.Duration, perSecond float64, logger *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	limit := rate.Inf
	burst := 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = int(perSecond)
		if burst < 1 {
			burst = 1
		}
	}
	return &Dispatcher{
		next:    next,
		timeout: timeout,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.With(zap.String("component", "notify_dispatcher")),
	}
}

// Dispatch queues msg for delivery and returns immediately. Messages handed
// in after Close are dropped.
func (d *Dispatcher) Dispatch(msg Message) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn("dispatcher closed; dropping notification", zap.String("booking_id", msg.BookingID))
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.limiter.Wait(ctx); err != nil {
			d.logger.Warn("notification rate wait failed", zap.String("booking_id", msg.BookingID), zap.Error(err))
			return
		}
		if err := d.next.Send(ctx, msg); err != nil {
			d.logger.Warn("notification failed",
				zap.String("kind", string(msg.Kind)),
				zap.String("booking_id", msg.BookingID),
				zap.Error(err),
			)
		}
	}()
}

// Close stops accepting messages and waits for in-flight deliveries until
// ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
