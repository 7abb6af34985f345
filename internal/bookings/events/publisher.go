// Package events announces booking lifecycle changes on Kafka.
package events

import (
	"context"
	"roombook/pkg/kafka"
	"roombook/pkg/logger"
	"roombook/pkg/middleware"
	"roombook/pkg/model"
	"time"
)

const (
	TypeCreated   = "booking.created"
	TypeUpdated   = "booking.updated"
	TypeCancelled = "booking.cancelled"

	SchemaVersion = "1"
	Source        = "bookings-service"

	publishTimeout = 5 * time.Second
)

// Event is the message value. Previous is set on updates only.
type Event struct {
	Type       string         `json:"type"`
	Booking    model.Booking  `json:"booking"`
	Previous   *model.Booking `json:"previous,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type sender interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	producer sender
	log      *logger.Logger
}

func NewKafkaPublisher(producer sender, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, log: log}
}

// Publish keys the message by resource so a consumer sees every change to
// one resource in order. The caller's cancellation is ignored: an event for
// a committed write is still sent after the HTTP request returns.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	msg, err := kafka.NewMessage().
		WithKey(string(event.Booking.Resource)).
		WithValue(event).
		WithEventType(event.Type).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		Build()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	return p.producer.Publish(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
