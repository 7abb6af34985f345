package availability

import (
	"roombook/pkg/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day time.Time, hour, min int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, day.Location())
}

func booking(start, end time.Time) model.Booking {
	return model.Booking{Resource: model.MeetingRoomA, Start: start, End: end}
}

func TestDayWindow(t *testing.T) {
	day := time.Date(2025, 3, 10, 15, 42, 7, 0, time.UTC)
	start, end := DayWindow(day)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 10, 23, 59, 59, 999_000_000, time.UTC), end)
}

func TestDayWindow_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	start, end := DayWindow(time.Date(2025, 3, 10, 1, 0, 0, 0, loc))

	assert.Equal(t, loc, start.Location())
	assert.Equal(t, 10, start.Day())
	assert.Equal(t, 10, end.Day())
}

func TestFreeSlots_TwoBookings(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	dayStart, dayEnd := DayWindow(day)

	slots := FreeSlots(dayStart, dayEnd, []model.Booking{
		booking(at(day, 9, 0), at(day, 9, 30)),
		booking(at(day, 11, 0), at(day, 11, 30)),
	}, model.Buffer)

	require.Len(t, slots, 3)
	assert.Equal(t, model.Slot{Start: dayStart, End: at(day, 8, 50)}, slots[0])
	assert.Equal(t, model.Slot{Start: at(day, 9, 40), End: at(day, 10, 50)}, slots[1])
	assert.Equal(t, model.Slot{Start: at(day, 11, 40), End: dayEnd}, slots[2])
}

func TestFreeSlots_NoBookingsIsWholeDay(t *testing.T) {
	dayStart, dayEnd := DayWindow(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	slots := FreeSlots(dayStart, dayEnd, nil, model.Buffer)

	require.Len(t, slots, 1)
	assert.Equal(t, model.Slot{Start: dayStart, End: dayEnd}, slots[0])
}

func TestFreeSlots_BookingsExactlyOneBufferApart(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	dayStart, dayEnd := DayWindow(day)

	// 10:30 plus the buffer meets 10:50 minus the buffer, leaving no gap between them
	slots := FreeSlots(dayStart, dayEnd, []model.Booking{
		booking(at(day, 10, 0), at(day, 10, 30)),
		booking(at(day, 10, 50), at(day, 11, 30)),
	}, model.Buffer)

	require.Len(t, slots, 2)
	assert.Equal(t, at(day, 9, 50), slots[0].End)
	assert.Equal(t, at(day, 11, 40), slots[1].Start)
}

func TestFreeSlots_BookingAtStartOfDay(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	dayStart, dayEnd := DayWindow(day)

	slots := FreeSlots(dayStart, dayEnd, []model.Booking{
		booking(at(day, 0, 5), at(day, 1, 0)),
	}, model.Buffer)

	require.Len(t, slots, 1)
	assert.Equal(t, model.Slot{Start: at(day, 1, 10), End: dayEnd}, slots[0])
}

func TestFreeSlots_BookingCrossingMidnight(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	dayStart, dayEnd := DayWindow(day)

	slots := FreeSlots(dayStart, dayEnd, []model.Booking{
		booking(day.Add(-30*time.Minute), day.Add(30*time.Minute)),
		booking(at(day, 23, 30), at(day, 23, 59).Add(31*time.Minute)),
	}, model.Buffer)

	require.Len(t, slots, 1)
	assert.Equal(t, model.Slot{Start: at(day, 0, 40), End: at(day, 23, 20)}, slots[0])
}

func TestFreeSlots_CursorNeverMovesBackwards(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	dayStart, dayEnd := DayWindow(day)

	slots := FreeSlots(dayStart, dayEnd, []model.Booking{
		booking(at(day, 9, 0), at(day, 11, 0)),
		booking(at(day, 9, 30), at(day, 10, 0)),
	}, model.Buffer)

	require.Len(t, slots, 2)
	assert.Equal(t, at(day, 11, 10), slots[1].Start)
}

func TestFreeSlots_SlotsAreOrderedAndDisjoint(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	dayStart, dayEnd := DayWindow(day)

	var bookings []model.Booking
	for h := 1; h < 23; h += 3 {
		bookings = append(bookings, booking(at(day, h, 0), at(day, h, 45)))
	}
	slots := FreeSlots(dayStart, dayEnd, bookings, model.Buffer)

	for i, s := range slots {
		assert.True(t, s.Start.Before(s.End), "slot %d is empty", i)
		if i > 0 {
			assert.False(t, s.Start.Before(slots[i-1].End), "slot %d overlaps previous", i)
		}
	}
}
