package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPClient opens receiver sessions against one RabbitMQ queue.
type AMQPClient struct {
	url       string
	queueName string
	prefetch  int
}

type AMQPOption func(*AMQPClient)

func WithPrefetch(n int) AMQPOption { return func(c *AMQPClient) { c.prefetch = n } }

// NewAMQPClient constructs a client for the given broker URL and queue.
// Default prefetch is 50.
func NewAMQPClient(url, queueName string, opts ...AMQPOption) *AMQPClient {
	c := &AMQPClient{url: url, queueName: queueName, prefetch: 50}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open dials the broker and starts a manual-ack consume on the queue.
// The queue is declared durable so either side can come up first.
func (c *AMQPClient) Open(ctx context.Context) (Session, error) {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.queueName, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// fair dispatch
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}

	if _, err := ch.QueueDeclare(
		c.queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", c.queueName, err)
	}

	deliveries, err := ch.Consume(
		c.queueName,
		"",    // consumer tag
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("consume %s: %w", c.queueName, err)
	}

	return &amqpSession{conn: conn, ch: ch, deliveries: deliveries}, nil
}

type amqpSession struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	deliveries <-chan amqp.Delivery
}

// Receive waits up to maxWait for the first message, then drains whatever is
// already buffered on the channel, up to max. A closed delivery channel maps
// to ErrSessionClosed so the consumer re-dials.
func (s *amqpSession) Receive(ctx context.Context, maxWait time.Duration, max int) ([]Delivery, error) {
	timer := time.NewTimer(maxWait)
	defer timer.Stop()

	var out []Delivery
	select {
	case d, ok := <-s.deliveries:
		if !ok {
			return nil, ErrSessionClosed
		}
		out = append(out, amqpDelivery{d})
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	for len(out) < max {
		select {
		case d, ok := <-s.deliveries:
			if !ok {
				// settle what we already have; the next Receive reports closed
				return out, nil
			}
			out = append(out, amqpDelivery{d})
		default:
			return out, nil
		}
	}
	return out, nil
}

func (s *amqpSession) Close() error {
	cerr := s.ch.Close()
	if err := s.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	if cerr != nil && !errors.Is(cerr, amqp.ErrClosed) {
		return cerr
	}
	return nil
}

type amqpDelivery struct {
	d amqp.Delivery
}

func (m amqpDelivery) MessageID() string {
	if m.d.MessageId != "" {
		return m.d.MessageId
	}
	return strconv.FormatUint(m.d.DeliveryTag, 10)
}

func (m amqpDelivery) Body() []byte { return m.d.Body }
func (m amqpDelivery) Ack() error   { return m.d.Ack(false) }

func (m amqpDelivery) Nack(requeue bool) error { return m.d.Nack(false, requeue) }
