package queue

import (
	"context"
	"errors"
	"time"
)

// ErrSessionClosed is returned by Receive when the underlying connection or
// channel has been invalidated. The consumer reacts by re-opening a session
// through its Client.
var ErrSessionClosed = errors.New("queue: session closed")

// Client opens receiver sessions against one named queue. The connection
// address and queue name are fixed at construction.
type Client interface {
	Open(ctx context.Context) (Session, error)
}

// Session is an open receiver handle scoped to one queue.
//
// Receive waits up to maxWait for at least one message and returns whatever
// is available, at most max messages. An empty batch is not an error.
// A Session must not be shared across goroutines.
type Session interface {
	Receive(ctx context.Context, maxWait time.Duration, max int) ([]Delivery, error)
	Close() error
}

// Delivery is a single received message. Ack settles it as consumed; Nack
// either returns it to the queue for redelivery (requeue=true) or drops it
// (requeue=false). Exactly one of the two is called per delivery, by the
// consumer loop only.
type Delivery interface {
	MessageID() string
	Body() []byte
	Ack() error
	Nack(requeue bool) error
}
