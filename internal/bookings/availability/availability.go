// Package availability derives the free intervals of a resource on one day.
package availability

import (
	"roombook/pkg/model"
	"time"
)

// DayWindow returns 00:00:00.000 and 23:59:59.999 of day's calendar date in
// day's location.
func DayWindow(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	end := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), day.Location())
	return start, end
}

// FreeSlots walks bookings, sorted by start, once. Each booking blocks
// [start-buffer, end+buffer). Slots before a booking are half-open; the
// trailing slot is closed at dayEnd. Bookings are assumed not to overlap
// each other once buffered; the cursor never moves backwards either way.
func FreeSlots(dayStart, dayEnd time.Time, bookings []model.Booking, buffer time.Duration) []model.Slot {
	slots := []model.Slot{}
	cursor := dayStart

	for _, b := range bookings {
		bufferedStart := b.Start.Add(-buffer)
		if cursor.Before(bufferedStart) {
			slots = append(slots, model.Slot{Start: cursor, End: minTime(bufferedStart, dayEnd)})
		}
		if bufferedEnd := b.End.Add(buffer); bufferedEnd.After(cursor) {
			cursor = bufferedEnd
		}
		if !cursor.Before(dayEnd) {
			return slots
		}
	}

	if cursor.Before(dayEnd) {
		slots = append(slots, model.Slot{Start: cursor, End: dayEnd})
	}
	return slots
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
