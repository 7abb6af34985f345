package service

import (
	"context"
	bookingserrors "roombook/internal/bookings/errors"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"time"
)

// BufferedWindow widens [start, end] by the buffer on both sides.
func BufferedWindow(start, end time.Time) (time.Time, time.Time) {
	return start.Add(-model.Buffer), end.Add(model.Buffer)
}

// checkConflict fails if any other booking on resource intersects the
// buffered window of [start, end]. Bookings exactly one buffer apart are
// allowed.
func (s *bookingService) checkConflict(ctx context.Context, resource model.Resource, start, end time.Time, excludeID string) error {
	windowStart, windowEnd := BufferedWindow(start, end)

	existing, err := s.repo.FindOverlapping(ctx, resource, windowStart, windowEnd, excludeID)
	if err != nil {
		return persistenceError("Failed to check existing bookings", err)
	}
	if existing != nil {
		s.cfg.Log.Info("Booking conflict detected",
			"resource", resource,
			"start", start,
			"end", end,
			"conflicting_id", existing.ID,
		)
		return apperrors.Conflict(bookingserrors.ConflictMessage, bookingserrors.ErrConflict).
			WithDetails(map[string]any{
				"conflictingId":    existing.ID,
				"conflictingStart": existing.Start,
				"conflictingEnd":   existing.End,
			})
	}
	return nil
}
