package status

import (
	"roombook/pkg/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	start = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	end   = time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC)
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want model.BookingStatus
	}{
		{"well before start", start.Add(-24 * time.Hour), model.StatusUpcoming},
		{"just before start", start.Add(-time.Millisecond), model.StatusUpcoming},
		{"exactly at start", start, model.StatusOngoing},
		{"in the middle", start.Add(15 * time.Minute), model.StatusOngoing},
		{"exactly at end", end, model.StatusOngoing},
		{"just after end", end.Add(time.Millisecond), model.StatusPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(start, end, tt.now))
		})
	}
}

func TestAnnotateAll(t *testing.T) {
	bookings := []model.Booking{
		{ID: "a", Start: start, End: end},
		{ID: "b", Start: start.Add(time.Hour), End: end.Add(time.Hour)},
	}

	views := AnnotateAll(bookings, start.Add(5*time.Minute))

	assert.Len(t, views, 2)
	assert.Equal(t, "a", views[0].ID)
	assert.Equal(t, model.StatusOngoing, views[0].Status)
	assert.Equal(t, model.StatusUpcoming, views[1].Status)
}

func TestTimeBounds_AgreesWithClassify(t *testing.T) {
	nows := []time.Time{
		start.Add(-time.Minute),
		start,
		start.Add(10 * time.Minute),
		end,
		end.Add(time.Minute),
	}
	statuses := []model.BookingStatus{model.StatusUpcoming, model.StatusOngoing, model.StatusPast}

	for _, now := range nows {
		for _, s := range statuses {
			want := Classify(start, end, now) == s
			got := TimeBounds(s, now).Matches(start, end)
			assert.Equal(t, want, got, "status %s at %s", s, now.Format(time.TimeOnly))
		}
	}
}

func TestTimeBounds_UnknownStatusIsUnbounded(t *testing.T) {
	assert.True(t, TimeBounds("", start).Matches(start, end))
}
