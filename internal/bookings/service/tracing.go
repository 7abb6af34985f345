package service

import (
	"context"
	"roombook/pkg/model"
	"roombook/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = tracing.Tracer("roombook/internal/bookings/service")

func startSpan(ctx context.Context, name string, resource model.Resource) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, name)
	if resource != "" {
		span.SetAttributes(attribute.String("booking.resource", string(resource)))
	}
	return ctx, span
}

// endSpan records err, if any, and ends span.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
