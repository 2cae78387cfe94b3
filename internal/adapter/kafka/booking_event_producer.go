package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/petgroom/booking-api/internal/usecase"
)

// BookingEventProducer publishes booking lifecycle events, keyed by booking
// id so events for one booking stay in partition order.
type BookingEventProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewBookingEventProducer(producer sarama.SyncProducer, topic string) *BookingEventProducer {
	return &BookingEventProducer{producer: producer, topic: topic}
}

func (p *BookingEventProducer) PublishBookingCreated(_ context.Context, msg usecase.BookingCreatedMsg) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(msg.BookingID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("publish booking event: %w", err)
	}
	return nil
}

func (p *BookingEventProducer) Close() error { return p.producer.Close() }

var _ usecase.EventPublisher = (*BookingEventProducer)(nil)
