// Package status derives a booking's lifecycle bucket from its interval and
// an explicit "now". Nothing here reads the wall clock.
package status

import (
	"roombook/pkg/model"
	"time"
)

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

// SystemClock is the wall-clock Clock.
func SystemClock() time.Time {
	return time.Now()
}

// Classify is inclusive on both ends: a booking is Ongoing at its exact
// start and end instants.
func Classify(start, end, now time.Time) model.BookingStatus {
	switch {
	case now.Before(start):
		return model.StatusUpcoming
	case now.After(end):
		return model.StatusPast
	default:
		return model.StatusOngoing
	}
}

// Annotate pairs a booking with its status at now.
func Annotate(b model.Booking, now time.Time) model.BookingView {
	return model.BookingView{Booking: b, Status: Classify(b.Start, b.End, now)}
}

// AnnotateAll annotates bookings in order.
func AnnotateAll(bookings []model.Booking, now time.Time) []model.BookingView {
	views := make([]model.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, Annotate(b, now))
	}
	return views
}

// Bounds are the raw start/end comparisons equivalent to a status bucket.
// A nil field means no constraint on that side.
type Bounds struct {
	StartAfter  *time.Time // start > t
	StartAtMost *time.Time // start <= t
	EndAtLeast  *time.Time // end >= t
	EndBefore   *time.Time // end < t
}

// TimeBounds translates a status bucket into storage comparisons that agree
// with Classify for the same now.
func TimeBounds(s model.BookingStatus, now time.Time) Bounds {
	switch s {
	case model.StatusUpcoming:
		return Bounds{StartAfter: &now}
	case model.StatusOngoing:
		return Bounds{StartAtMost: &now, EndAtLeast: &now}
	case model.StatusPast:
		return Bounds{EndBefore: &now}
	}
	return Bounds{}
}

// Matches reports whether a booking satisfies b. Used to check a bound set
// against Classify.
func (b Bounds) Matches(start, end time.Time) bool {
	if b.StartAfter != nil && !start.After(*b.StartAfter) {
		return false
	}
	if b.StartAtMost != nil && start.After(*b.StartAtMost) {
		return false
	}
	if b.EndAtLeast != nil && end.Before(*b.EndAtLeast) {
		return false
	}
	if b.EndBefore != nil && !end.Before(*b.EndBefore) {
		return false
	}
	return true
}
