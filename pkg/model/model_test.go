package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResource(t *testing.T) {
	r, err := ParseResource(" PROJECTOR ")
	require.NoError(t, err)
	assert.Equal(t, Projector, r)

	_, err = ParseResource("projector")
	assert.Error(t, err, "resource names are case sensitive")

	_, err = ParseResource("BOARDROOM")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MEETING_ROOM_A")
}

func TestResourceUnmarshalJSON(t *testing.T) {
	var in BookingInput
	err := json.Unmarshal([]byte(`{"resource":"LAPTOP","start":"2026-03-01T10:00:00Z","end":"2026-03-01T10:30:00Z","requestedBy":"bob"}`), &in)
	require.NoError(t, err)
	assert.Equal(t, Laptop, in.Resource)

	err = json.Unmarshal([]byte(`{"resource":"TOASTER"}`), &in)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"resource":7}`), &in)
	assert.Error(t, err)
}

func TestResourcesIsACopy(t *testing.T) {
	rs := Resources()
	rs[0] = "CHANGED"
	assert.Equal(t, MeetingRoomA, Resources()[0])
	assert.Len(t, ResourceNames(), 5)
}

func TestParseBookingStatus(t *testing.T) {
	tests := map[string]BookingStatus{
		"upcoming": StatusUpcoming,
		"Ongoing":  StatusOngoing,
		" PAST ":   StatusPast,
	}
	for in, want := range tests {
		got, err := ParseBookingStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseBookingStatus("cancelled")
	assert.Error(t, err)
}

func TestBookingUpdateIsEmpty(t *testing.T) {
	assert.True(t, (&BookingUpdate{}).IsEmpty())

	who := "carol"
	assert.False(t, (&BookingUpdate{RequestedBy: &who}).IsEmpty())
}

func TestPaginationSkip(t *testing.T) {
	assert.Equal(t, int64(0), Pagination{Page: 1, Limit: 10}.Skip())
	assert.Equal(t, int64(0), Pagination{Page: 0, Limit: 10}.Skip())
	assert.Equal(t, int64(20), Pagination{Page: 3, Limit: 10}.Skip())
	assert.Equal(t, int64(10), Pagination{Page: 3, Limit: 10}.Take())
}

func TestResourceGroups_PreservesFirstSeenOrder(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	view := func(id string, r Resource) BookingView {
		return BookingView{Booking: Booking{ID: id, Resource: r, Start: at, End: at.Add(30 * time.Minute)}}
	}

	g := NewResourceGroups()
	g.Add(view("1", Projector))
	g.Add(view("2", MeetingRoomA))
	g.Add(view("3", Projector))

	assert.Equal(t, []Resource{Projector, MeetingRoomA}, g.Keys())
	assert.Equal(t, 2, g.Len())
	assert.Len(t, g.Get(Projector), 2)
	assert.Nil(t, g.Get(Laptop))

	raw, err := json.Marshal(g)
	require.NoError(t, err)

	body := string(raw)
	projector := strings.Index(body, `"PROJECTOR"`)
	room := strings.Index(body, `"MEETING_ROOM_A"`)
	require.True(t, projector >= 0 && room >= 0, body)
	assert.Less(t, projector, room)

	var decoded map[string][]BookingView
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Len(t, decoded["PROJECTOR"], 2)
}

func TestResourceGroups_EmptyMarshalsAsObject(t *testing.T) {
	raw, err := json.Marshal(NewResourceGroups())
	require.NoError(t, err)
	assert.Equal(t, "{}", string(raw))
}
