package kafka

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/segmentio/kafka-go"
)

var (
	ErrProducerClosed = errors.New("kafka producer is closed")
	ErrConsumerClosed = errors.New("kafka consumer is closed")
	ErrInvalidMessage = errors.New("invalid message")
	ErrEmptyKey       = errors.New("message key cannot be empty")
	ErrEmptyValue     = errors.New("message value cannot be empty")
)

type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeTransient
	ErrorTypePermanent
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeTransient:
		return "transient"
	case ErrorTypePermanent:
		return "permanent"
	}
	return "unknown"
}

// KafkaError lets a handler state explicitly whether its failure is retryable.
type KafkaError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *KafkaError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *KafkaError) Unwrap() error { return e.Err }

func NewTransientError(message string, err error) *KafkaError {
	return &KafkaError{Type: ErrorTypeTransient, Message: message, Err: err}
}

func NewPermanentError(message string, err error) *KafkaError {
	return &KafkaError{Type: ErrorTypePermanent, Message: message, Err: err}
}

var transientErrnos = []error{
	syscall.ECONNREFUSED,
	syscall.ECONNRESET,
	syscall.EPIPE,
	io.ErrUnexpectedEOF,
	context.DeadlineExceeded,
}

// Some client errors only survive as text once they have been wrapped by a handler.
var transientPatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"no such host",
	"leader not available",
	"not leader for partition",
}

// ClassifyError decides whether a handler failure is worth retrying.
// Anything it cannot recognise is permanent and goes to the DLQ.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeUnknown
	}

	var explicit *KafkaError
	if errors.As(err, &explicit) {
		return explicit.Type
	}
	if isTransient(err) {
		return ErrorTypeTransient
	}
	return ErrorTypePermanent
}

func isTransient(err error) bool {
	for _, target := range transientErrnos {
		if errors.Is(err, target) {
			return true
		}
	}

	var brokerErr kafka.Error
	if errors.As(err, &brokerErr) {
		return brokerErr.Temporary()
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

func ShouldRetry(err error, currentRetries, maxRetries int) bool {
	return currentRetries < maxRetries && ClassifyError(err) == ErrorTypeTransient
}
