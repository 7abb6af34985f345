package validator

import (
	"errors"
	bookingserrors "roombook/internal/bookings/errors"
	"roombook/pkg/logger"
	"roombook/pkg/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

func TestValidateInterval(t *testing.T) {
	tests := []struct {
		name     string
		end      time.Time
		wantMins float64
		wantErr  string
	}{
		{name: "minimum duration", end: base.Add(15 * time.Minute), wantMins: 15},
		{name: "maximum duration", end: base.Add(120 * time.Minute), wantMins: 120},
		{name: "fractional minutes are exact", end: base.Add(30*time.Minute + 30*time.Second), wantMins: 30.5},
		{name: "end equals start", end: base, wantErr: "End time must be after start time."},
		{name: "end before start", end: base.Add(-time.Hour), wantErr: "End time must be after start time."},
		{name: "too short", end: base.Add(14*time.Minute + 59*time.Second), wantErr: "Booking duration must be at least 15 minutes."},
		{name: "too long", end: base.Add(120*time.Minute + time.Millisecond), wantErr: "Booking duration cannot exceed 120 minutes."},
		{name: "too long by under a millisecond", end: base.Add(120*time.Minute + 500*time.Microsecond), wantErr: "Booking duration cannot exceed 120 minutes."},
		{name: "too short by under a millisecond", end: base.Add(15*time.Minute - 500*time.Microsecond), wantErr: "Booking duration must be at least 15 minutes."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mins, err := ValidateInterval(base, tt.end)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, bookingserrors.ErrInvalidInterval))
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMins, mins)
			assert.Equal(t, tt.end.Sub(base).Minutes(), mins)
		})
	}
}

func TestValidateInterval_AllValidDurations(t *testing.T) {
	for m := model.MinDurationMinutes; m <= model.MaxDurationMinutes; m++ {
		mins, err := ValidateInterval(base, base.Add(time.Duration(m)*time.Minute))
		require.NoError(t, err, "duration %d", m)
		assert.Equal(t, float64(m), mins)
	}
}

func TestBookingValidator_ValidateInput(t *testing.T) {
	v := NewBookingValidator(logger.Discard())

	valid := model.BookingInput{
		Resource:    model.Laptop,
		Start:       base,
		End:         base.Add(time.Hour),
		RequestedBy: "alice",
	}
	assert.NoError(t, v.ValidateInput(&valid))

	missing := model.BookingInput{}
	err := v.ValidateInput(&missing)
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := map[string]bool{}
	for _, e := range verrs {
		fields[e.Field] = true
	}
	assert.True(t, fields["resource"])
	assert.True(t, fields["start"])
	assert.True(t, fields["end"])
	assert.True(t, fields["requestedBy"])
}

func TestBookingValidator_RejectsUnknownResource(t *testing.T) {
	v := NewBookingValidator(logger.Discard())

	input := model.BookingInput{
		Resource:    model.Resource("BROOM_CLOSET"),
		Start:       base,
		End:         base.Add(time.Hour),
		RequestedBy: "alice",
	}
	err := v.ValidateInput(&input)
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "resource", verrs[0].Field)
	assert.Contains(t, verrs[0].Message, "MEETING_ROOM_A")
}

func TestBookingValidator_ValidateUpdate(t *testing.T) {
	v := NewBookingValidator(logger.Discard())

	assert.Error(t, v.ValidateUpdate(&model.BookingUpdate{}), "empty update must be rejected")

	projector := model.Projector
	assert.NoError(t, v.ValidateUpdate(&model.BookingUpdate{Resource: &projector}))

	bad := model.Resource("NOPE")
	assert.Error(t, v.ValidateUpdate(&model.BookingUpdate{Resource: &bad}))

	empty := ""
	assert.Error(t, v.ValidateUpdate(&model.BookingUpdate{RequestedBy: &empty}))
}

func TestValidationErrors_Details(t *testing.T) {
	errs := ValidationErrors{{Field: "start", Message: "start is required"}}
	assert.Equal(t, map[string]any{"start": "start is required"}, errs.Details())
	assert.Contains(t, errs.Error(), "1 error(s)")
}
