package queue

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrUnprocessable marks a message that can never succeed no matter how many
// times it is redelivered. The consumer drops such messages instead of
// requeueing them.
var ErrUnprocessable = errors.New("queue: unprocessable message")

// Handler processes a single delivery. It should be idempotent.
// Return nil => the consumer acks; return error => the consumer nacks.
// Handlers must not call Ack/Nack themselves; settlement belongs to the
// consumer loop.
type Handler interface {
	Handle(ctx context.Context, d Delivery) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, d Delivery) error

func (f HandlerFunc) Handle(ctx context.Context, d Delivery) error { return f(ctx, d) }

// JSONHandler adapts a typed function into a raw Delivery handler.
// It unmarshals the delivery body into T and calls HandleFunc(ctx, T).
type JSONHandler[T any] struct {
	HandleFunc func(ctx context.Context, msg T) error
}

func (h JSONHandler[T]) Handle(ctx context.Context, d Delivery) error {
	var v T
	if err := json.Unmarshal(d.Body(), &v); err != nil {
		// poison: redelivery cannot make the body decodable
		return errors.Join(ErrUnprocessable, err)
	}
	return h.HandleFunc(ctx, v)
}
