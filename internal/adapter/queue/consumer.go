package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "queue_messages_received_total",
		Help: "Total number of messages pulled from the queue",
	})
	messagesAcked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "queue_messages_acked_total",
		Help: "Total number of messages settled as consumed",
	})
	messagesNacked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "queue_messages_nacked_total",
		Help: "Total number of messages returned for redelivery",
	})
	receiveErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "queue_receive_errors_total",
		Help: "Total number of failed receive calls",
	})
)

type state int32

const (
	stateStopped state = iota
	stateStarting
	stateRunning
)

// Consumer owns one background goroutine that pulls batches from a queue
// session and feeds each delivery to a Handler. Handler success acks the
// message, handler failure nacks it; neither stops the loop. Receive
// failures are retried with a fixed backoff, re-opening the session when it
// has been invalidated.
type Consumer struct {
	client  Client
	handler Handler

	batchWait    time.Duration
	batchSize    int
	callTimeout  time.Duration
	stopGrace    time.Duration
	retryBackoff time.Duration
	requeueOnErr bool
	logger       *slog.Logger

	mu      sync.Mutex
	state   state
	session Session
	cancel  context.CancelFunc
	done    chan struct{}
}

type ConsumerOption func(*Consumer)

func WithBatchWait(d time.Duration) ConsumerOption    { return func(c *Consumer) { c.batchWait = d } }
func WithBatchSize(n int) ConsumerOption              { return func(c *Consumer) { c.batchSize = n } }
func WithCallTimeout(d time.Duration) ConsumerOption  { return func(c *Consumer) { c.callTimeout = d } }
func WithStopGrace(d time.Duration) ConsumerOption    { return func(c *Consumer) { c.stopGrace = d } }
func WithRetryBackoff(d time.Duration) ConsumerOption { return func(c *Consumer) { c.retryBackoff = d } }
func WithRequeue(b bool) ConsumerOption               { return func(c *Consumer) { c.requeueOnErr = b } }
func WithLogger(l *slog.Logger) ConsumerOption        { return func(c *Consumer) { c.logger = l } }

// NewConsumer constructs a Consumer. Defaults: batchWait=5s, batchSize=10,
// callTimeout=10s, stopGrace=10s, retryBackoff=5s, requeueOnErr=true.
func NewConsumer(client Client, h Handler, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		client:       client,
		handler:      h,
		batchWait:    5 * time.Second,
		batchSize:    10,
		callTimeout:  10 * time.Second,
		stopGrace:    10 * time.Second,
		retryBackoff: 5 * time.Second,
		requeueOnErr: true,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Running reports whether the background loop is active.
func (c *Consumer) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateRunning
}

// Start opens a session and spawns the consume loop; non-blocking.
// Calling Start while already running is a no-op. If the session cannot be
// opened the error is returned and the consumer stays stopped; mid-loop
// failures after a successful Start are retried internally instead.
func (c *Consumer) Start() error {
	c.mu.Lock()
	if c.state != stateStopped {
		c.mu.Unlock()
		c.logger.Warn("consumer already running")
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.state = stateStarting
	c.cancel = cancel
	c.mu.Unlock()

	sess, err := c.client.Open(ctx)
	if err != nil {
		cancel()
		c.mu.Lock()
		c.state = stateStopped
		c.cancel = nil
		c.mu.Unlock()
		return fmt.Errorf("open queue session: %w", err)
	}

	done := make(chan struct{})
	c.mu.Lock()
	// Stop may have raced with the dial above; re-check under the lock so
	// a stopped consumer never ends up Running with an orphaned session.
	if ctx.Err() != nil {
		c.state = stateStopped
		c.cancel = nil
		c.mu.Unlock()
		_ = sess.Close()
		return fmt.Errorf("open queue session: %w", ctx.Err())
	}
	c.session = sess
	c.done = done
	c.state = stateRunning
	c.mu.Unlock()

	go func() {
		defer close(done)
		c.run(ctx, sess)
	}()

	c.logger.Info("consumer started")
	return nil
}

// Stop signals the loop to exit, waits up to the grace period, then closes
// the session. Idempotent; never returns an error to the caller. If the loop
// does not exit in time it is abandoned and the session is closed anyway,
// which unblocks any in-flight receive.
func (c *Consumer) Stop() {
	c.mu.Lock()
	if c.state == stateStopped {
		c.mu.Unlock()
		return
	}
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	cancel()
	if done != nil {
		select {
		case <-done:
		case <-time.After(c.stopGrace):
			c.logger.Warn("consume loop did not exit within grace period")
		}
	}

	c.mu.Lock()
	if c.session != nil {
		if err := c.session.Close(); err != nil {
			c.logger.Error("close session", "error", err)
		}
		c.session = nil
	}
	c.cancel = nil
	c.done = nil
	c.state = stateStopped
	c.mu.Unlock()

	c.logger.Info("consumer stopped")
}

func (c *Consumer) run(ctx context.Context, sess Session) {
	for {
		if ctx.Err() != nil {
			return
		}

		batch, err := sess.Receive(ctx, c.batchWait, c.batchSize)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			receiveErrors.Inc()
			c.logger.Error("receive failed", "error", err)
			if !c.sleep(ctx) {
				return
			}
			if errors.Is(err, ErrSessionClosed) {
				next, ok := c.reopen(ctx, sess)
				if !ok {
					return
				}
				sess = next
			}
			continue
		}

		for _, d := range batch {
			if ctx.Err() != nil {
				return
			}
			messagesReceived.Inc()
			c.dispatch(ctx, d)
		}
	}
}

// dispatch runs the handler for one delivery and settles it. Failures are
// isolated per message: a handler error or panic nacks that delivery only,
// and settlement errors are logged without stopping the loop. Poison
// (ErrUnprocessable) is dropped rather than requeued so an undecodable or
// permanently invalid message cannot hot-loop against the broker.
func (c *Consumer) dispatch(ctx context.Context, d Delivery) {
	if err := c.invoke(ctx, d); err != nil {
		requeue := c.requeueOnErr && !errors.Is(err, ErrUnprocessable)
		c.logger.Error("handler failed",
			"message_id", d.MessageID(), "requeue", requeue, "error", err)
		if nerr := d.Nack(requeue); nerr != nil {
			c.logger.Error("nack failed", "message_id", d.MessageID(), "error", nerr)
		}
		messagesNacked.Inc()
		return
	}
	if aerr := d.Ack(); aerr != nil {
		c.logger.Error("ack failed", "message_id", d.MessageID(), "error", aerr)
	}
	messagesAcked.Inc()
}

func (c *Consumer) invoke(ctx context.Context, d Delivery) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	return c.handler.Handle(ctx, d)
}

// reopen closes the invalidated session and dials a new one, backing off
// between attempts until it succeeds or the loop is cancelled.
func (c *Consumer) reopen(ctx context.Context, old Session) (Session, bool) {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	_ = old.Close()
	for {
		next, err := c.client.Open(ctx)
		if err == nil {
			c.mu.Lock()
			// Stop may have given up on the grace period while the dial was
			// in flight; it will never see this session, so close it here.
			if ctx.Err() != nil {
				c.mu.Unlock()
				_ = next.Close()
				return nil, false
			}
			c.session = next
			c.mu.Unlock()
			c.logger.Info("session reopened")
			return next, true
		}
		if ctx.Err() != nil {
			return nil, false
		}
		c.logger.Error("reopen failed", "error", err)
		if !c.sleep(ctx) {
			return nil, false
		}
	}
}

// sleep waits one backoff interval; returns false if cancelled first.
func (c *Consumer) sleep(ctx context.Context) bool {
	t := time.NewTimer(c.retryBackoff)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
