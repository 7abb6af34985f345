package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Resource identifies one bookable item. The set is closed: values outside
// of it can only be produced by ParseResource failing.
type Resource string

const (
	MeetingRoomA   Resource = "MEETING_ROOM_A"
	MeetingRoomB   Resource = "MEETING_ROOM_B"
	ConferenceHall Resource = "CONFERENCE_HALL"
	Projector      Resource = "PROJECTOR"
	Laptop         Resource = "LAPTOP"
)

var resources = []Resource{
	MeetingRoomA,
	MeetingRoomB,
	ConferenceHall,
	Projector,
	Laptop,
}

// Resources returns the bookable resources in declaration order.
func Resources() []Resource {
	out := make([]Resource, len(resources))
	copy(out, resources)
	return out
}

// ResourceNames returns the resources as plain strings, e.g. for oneof tags and error messages.
func ResourceNames() []string {
	names := make([]string, 0, len(resources))
	for _, r := range resources {
		names = append(names, string(r))
	}
	return names
}

func ParseResource(s string) (Resource, error) {
	candidate := Resource(strings.TrimSpace(s))
	if candidate.Valid() {
		return candidate, nil
	}
	return "", fmt.Errorf("unknown resource %q, must be one of: %s", s, strings.Join(ResourceNames(), ", "))
}

func (r Resource) Valid() bool {
	for _, known := range resources {
		if r == known {
			return true
		}
	}
	return false
}

func (r Resource) String() string {
	return string(r)
}

func (r *Resource) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("resource must be a string: %w", err)
	}
	parsed, err := ParseResource(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
