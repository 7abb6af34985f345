package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"roombook/pkg/logger"
	"sync"
	"syscall"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu      sync.Mutex
	written []kafka.Message
	err     error
	closed  bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func headerValue(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestMessageBuilder(t *testing.T) {
	msg, err := NewMessage().
		WithKey("Laptop").
		WithValue(map[string]string{"id": "b1"}).
		WithEventType("booking.created").
		WithCorrelationID("req-1").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "Laptop", msg.Key)
	assert.JSONEq(t, `{"id":"b1"}`, string(msg.Value))
	assert.Equal(t, "booking.created", msg.EventType())
	assert.Equal(t, "req-1", msg.CorrelationID())
	assert.NotEmpty(t, msg.EventID())
	assert.NotEmpty(t, msg.Headers[HeaderTimestamp])
}

func TestMessageBuilder_ReportsEncodingError(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	assert.ErrorIs(t, err, ErrInvalidMessage)
}

func TestMessage_RetryCountPastNine(t *testing.T) {
	msg := Message{Headers: map[string]string{}}
	for range 12 {
		msg.IncrementRetryCount()
	}
	assert.Equal(t, 12, msg.RetryCount())
}

func TestProducer_PublishRunsMiddlewareInOrder(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, nil, "booking-events", logger.Discard())

	var order []string
	p.Use(func(ctx context.Context, msg Message, next MessageHandler) error {
		order = append(order, "outer")
		return next(ctx, msg)
	})
	p.Use(func(ctx context.Context, msg Message, next MessageHandler) error {
		order = append(order, "inner")
		return next(ctx, msg)
	})

	msg, err := NewMessage().WithKey("Laptop").WithValue("x").Build()
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), msg))

	assert.Equal(t, []string{"outer", "inner"}, order)
	require.Len(t, w.written, 1)
	assert.Equal(t, "Laptop", string(w.written[0].Key))
}

func TestProducer_RejectsInvalidMessages(t *testing.T) {
	p := newProducer(&fakeWriter{}, nil, "t", logger.Discard())

	assert.ErrorIs(t, p.Publish(context.Background(), Message{Value: []byte("x")}), ErrEmptyKey)
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k"}), ErrEmptyValue)

	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k", Value: []byte("x")}), ErrProducerClosed)
}

func TestProducer_FailedWriteGoesToDLQ(t *testing.T) {
	writeErr := errors.New("connection refused")
	w := &fakeWriter{err: writeErr}
	dlq := &fakeWriter{}
	p := newProducer(w, dlq, "booking-events", logger.Discard())

	msg, err := NewMessage().WithKey("Laptop").WithValue("x").Build()
	require.NoError(t, err)

	err = p.Publish(context.Background(), msg)
	assert.ErrorIs(t, err, writeErr)
	require.Len(t, dlq.written, 1)
	assert.Equal(t, "booking-events", headerValue(dlq.written[0], HeaderOriginalTopic))
	assert.Equal(t, "connection refused", headerValue(dlq.written[0], HeaderDLQError))
	assert.Empty(t, msg.Headers[HeaderDLQError], "caller's headers must not be mutated")
}

type fakeReader struct {
	msgs      []kafka.Message
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		return kafka.Message{}, io.EOF
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func TestConsumer_CommitsHandledAndDeadLetteredMessages(t *testing.T) {
	reader := &fakeReader{msgs: []kafka.Message{
		{Topic: "booking-events", Offset: 1, Key: []byte("ok"), Value: []byte(`{}`)},
		{Topic: "booking-events", Offset: 2, Key: []byte("bad"), Value: []byte(`{}`)},
	}}
	dlq := &fakeWriter{}

	handler := func(_ context.Context, msg Message) error {
		if msg.Key == "bad" {
			return NewPermanentError("schema mismatch", nil)
		}
		return nil
	}
	c := newConsumer(reader, dlq, "booking-events", "booking-audit", handler, logger.Discard())

	err := c.Start(context.Background())
	assert.ErrorIs(t, err, ErrConsumerClosed)
	assert.Equal(t, []int64{1, 2}, reader.committed)
	require.Len(t, dlq.written, 1)
	assert.Equal(t, "bad", string(dlq.written[0].Key))
	assert.Equal(t, "booking-audit", headerValue(dlq.written[0], HeaderDLQGroup))
}

func TestConsumer_RetriesTransientFailures(t *testing.T) {
	reader := &fakeReader{msgs: []kafka.Message{{Offset: 7, Key: []byte("k"), Value: []byte(`{}`)}}}
	calls := 0
	handler := func(_ context.Context, msg Message) error {
		calls++
		if calls < 3 {
			return NewTransientError("broker busy", nil)
		}
		return nil
	}
	c := newConsumer(reader, nil, "t", "g", handler, logger.Discard())
	c.maxRetries = 3

	_ = c.Start(context.Background())
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int64{7}, reader.committed)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"transient kafka error", NewTransientError("x", nil), ErrorTypeTransient},
		{"wrapped permanent", fmt.Errorf("outer: %w", NewPermanentError("x", nil)), ErrorTypePermanent},
		{"deadline", context.DeadlineExceeded, ErrorTypeTransient},
		{"connection refused", errors.New("dial tcp: Connection Refused"), ErrorTypeTransient},
		{"refused dial", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, ErrorTypeTransient},
		{"broker leader election", fmt.Errorf("write: %w", kafka.LeaderNotAvailable), ErrorTypeTransient},
		{"broker rejects size", kafka.MessageSizeTooLarge, ErrorTypePermanent},
		{"unknown", errors.New("boom"), ErrorTypePermanent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestShouldRetry(t *testing.T) {
	transient := NewTransientError("x", nil)
	assert.True(t, ShouldRetry(transient, 0, 3))
	assert.False(t, ShouldRetry(transient, 3, 3))
	assert.False(t, ShouldRetry(errors.New("boom"), 0, 3))
	assert.False(t, ShouldRetry(nil, 0, 3))
}
