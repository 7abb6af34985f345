package events

import (
	"context"
	"fmt"
	"roombook/pkg/kafka"
	"roombook/pkg/logger"
)

// NewAuditHandler logs every booking event it receives. Messages it cannot
// decode, or whose type it does not know, fail permanently and go to the DLQ.
func NewAuditHandler(log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event Event
		if err := msg.DecodeValue(&event); err != nil {
			return err
		}

		switch event.Type {
		case TypeCreated, TypeUpdated, TypeCancelled:
		default:
			return kafka.NewPermanentError("unknown booking event type", fmt.Errorf("%q", event.Type))
		}

		attrs := []any{
			"event_id", msg.EventID(),
			"type", event.Type,
			"id", event.Booking.ID,
			"resource", event.Booking.Resource,
			"start", event.Booking.Start,
			"end", event.Booking.End,
			"requested_by", event.Booking.RequestedBy,
			"occurred_at", event.OccurredAt,
		}
		if event.Previous != nil {
			attrs = append(attrs,
				"previous_resource", event.Previous.Resource,
				"previous_start", event.Previous.Start,
				"previous_end", event.Previous.End,
			)
		}
		if id := msg.CorrelationID(); id != "" {
			attrs = append(attrs, "request_id", id)
		}

		log.Info("Booking event", attrs...)
		return nil
	}
}
