package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const DefaultQueue = "salonbook.notifications"

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher puts notifications on a durable queue for the notifier worker.
type Publisher struct {
	url    string
	queue  string
	logger *zap.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   publishChannel
	dial func() (publishChannel, error)
}

func NewPublisher(url, queue string, logger *zap.Logger) (*Publisher, error) {
	if queue == "" {
		queue = DefaultQueue
	}
	p := &Publisher{url: url, queue: queue, logger: logger.With(zap.String("component", "amqp_publisher"))}
	p.dial = p.dialChannel
	ch, err := p.dial()
	if err != nil {
		return nil, err
	}
	p.ch = ch
	return p, nil
}

func (p *Publisher) dialChannel() (publishChannel, error) {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel open: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn = conn
	return ch, nil
}

// Send publishes msg as a persistent JSON message. A closed channel is
// redialed once before giving up.
func (p *Publisher) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(msg.Kind),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, pub)
		if err == nil || !errors.Is(err, amqp.ErrClosed) {
			return err
		}
		p.logger.Warn("amqp channel closed; redialing", zap.Error(err))
	}

	ch, err := p.dial()
	if err != nil {
		p.ch = nil
		return err
	}
	p.ch = ch
	return p.ch.PublishWithContext(ctx, "", p.queue, false, false, pub)
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
		p.ch = nil
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
		p.conn = nil
	}
	return errors.Join(errs...)
}
