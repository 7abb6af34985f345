package events

import (
	"context"
	"errors"
	"roombook/pkg/kafka"
	"roombook/pkg/logger"
	"roombook/pkg/middleware"
	"roombook/pkg/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	publishFunc func(ctx context.Context, msg kafka.Message) error
	closed      bool
}

func (m *mockSender) Publish(ctx context.Context, msg kafka.Message) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, msg)
	}
	return nil
}

func (m *mockSender) Close() error {
	m.closed = true
	return nil
}

func sampleBooking() model.Booking {
	start := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	return model.Booking{
		ID:              "65f1c0ffee0000000000abcd",
		Resource:        model.MeetingRoomA,
		Start:           start,
		End:             start.Add(30 * time.Minute),
		DurationMinutes: 30,
		RequestedBy:     "alice@example.com",
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	var sent kafka.Message
	sender := &mockSender{publishFunc: func(ctx context.Context, msg kafka.Message) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		sent = msg
		return nil
	}}
	pub := NewKafkaPublisher(sender, logger.Discard())

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	err := pub.Publish(ctx, Event{Type: TypeCreated, Booking: sampleBooking()})
	require.NoError(t, err)

	assert.Equal(t, string(model.MeetingRoomA), sent.Key)
	assert.Equal(t, TypeCreated, sent.EventType())
	assert.Equal(t, "req-42", sent.CorrelationID())
	assert.Equal(t, SchemaVersion, sent.Headers[kafka.HeaderSchemaVersion])
	assert.NotEmpty(t, sent.EventID())

	var decoded Event
	require.NoError(t, sent.DecodeValue(&decoded))
	assert.Equal(t, TypeCreated, decoded.Type)
	assert.Equal(t, "alice@example.com", decoded.Booking.RequestedBy)
	assert.False(t, decoded.OccurredAt.IsZero())
	assert.Nil(t, decoded.Previous)
}

func TestKafkaPublisher_IgnoresCallerCancellation(t *testing.T) {
	sender := &mockSender{publishFunc: func(ctx context.Context, msg kafka.Message) error {
		return ctx.Err()
	}}
	pub := NewKafkaPublisher(sender, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, pub.Publish(ctx, Event{Type: TypeCancelled, Booking: sampleBooking()}))
}

func TestKafkaPublisher_PropagatesSendError(t *testing.T) {
	boom := errors.New("broker down")
	sender := &mockSender{publishFunc: func(ctx context.Context, msg kafka.Message) error {
		return boom
	}}
	pub := NewKafkaPublisher(sender, logger.Discard())

	err := pub.Publish(context.Background(), Event{Type: TypeUpdated, Booking: sampleBooking()})
	assert.ErrorIs(t, err, boom)

	require.NoError(t, pub.Close())
	assert.True(t, sender.closed)
}

func TestNopPublisher(t *testing.T) {
	var pub Publisher = NopPublisher{}
	assert.NoError(t, pub.Publish(context.Background(), Event{Type: TypeCreated}))
	assert.NoError(t, pub.Close())
}
