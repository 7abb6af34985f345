package validator

import (
	"fmt"
	bookingserrors "roombook/internal/bookings/errors"
	"roombook/pkg/model"
	"time"
)

// IntervalError explains why a start/end pair was rejected. It matches
// ErrInvalidInterval under errors.Is.
type IntervalError struct {
	Reason string
}

func (e *IntervalError) Error() string {
	return e.Reason
}

func (e *IntervalError) Unwrap() error {
	return bookingserrors.ErrInvalidInterval
}

// ValidateInterval checks ordering and the duration bounds and returns the
// duration in minutes.
func ValidateInterval(start, end time.Time) (float64, error) {
	if !end.After(start) {
		return 0, &IntervalError{Reason: "End time must be after start time."}
	}

	minutes := end.Sub(start).Minutes()
	if minutes < model.MinDurationMinutes {
		return 0, &IntervalError{Reason: fmt.Sprintf("Booking duration must be at least %d minutes.", model.MinDurationMinutes)}
	}
	if minutes > model.MaxDurationMinutes {
		return 0, &IntervalError{Reason: fmt.Sprintf("Booking duration cannot exceed %d minutes.", model.MaxDurationMinutes)}
	}
	return minutes, nil
}
