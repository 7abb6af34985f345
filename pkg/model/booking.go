package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	BufferMinutes      = 10
	MinDurationMinutes = 15
	MaxDurationMinutes = 120

	Buffer = BufferMinutes * time.Minute
)

type Booking struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty"`
	Resource        Resource  `json:"resource" bson:"resource"`
	Start           time.Time `json:"start" bson:"start"`
	End             time.Time `json:"end" bson:"end"`
	DurationMinutes float64   `json:"durationMinutes" bson:"duration_minutes"`
	RequestedBy     string    `json:"requestedBy" bson:"requested_by"`
	CreatedAt       time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updated_at"`
}

// BookingInput is the create payload. DurationMinutes is not accepted:
// it is always derived from Start and End.
type BookingInput struct {
	Resource    Resource  `json:"resource" validate:"required,resource"`
	Start       time.Time `json:"start" validate:"required"`
	End         time.Time `json:"end" validate:"required"`
	RequestedBy string    `json:"requestedBy" validate:"required,min=1,max=200"`
}

type BookingUpdate struct {
	Resource    *Resource  `json:"resource,omitempty" validate:"omitempty,resource"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	RequestedBy *string    `json:"requestedBy,omitempty" validate:"omitempty,min=1,max=200"`
}

func (u BookingUpdate) IsEmpty() bool {
	return u.Resource == nil && u.Start == nil && u.End == nil && u.RequestedBy == nil
}

type BookingStatus string

const (
	StatusUpcoming BookingStatus = "Upcoming"
	StatusOngoing  BookingStatus = "Ongoing"
	StatusPast     BookingStatus = "Past"
)

func ParseBookingStatus(s string) (BookingStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "upcoming":
		return StatusUpcoming, nil
	case "ongoing":
		return StatusOngoing, nil
	case "past":
		return StatusPast, nil
	}
	return "", fmt.Errorf("unknown status %q, must be one of: upcoming, ongoing, past", s)
}

// BookingView is a stored booking annotated with its status at read time.
type BookingView struct {
	Booking
	Status BookingStatus `json:"status"`
}

type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type BookingFilter struct {
	SearchTerm string
	Resource   Resource
	Date       *time.Time
	Status     BookingStatus
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type Pagination struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder
}

func (p Pagination) Skip() int64 {
	if p.Page <= 1 {
		return 0
	}
	return int64(p.Page-1) * int64(p.Limit)
}

func (p Pagination) Take() int64 {
	return int64(p.Limit)
}

type PageMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type BookingPage struct {
	Meta PageMeta      `json:"meta"`
	Data []BookingView `json:"data"`
}

// ResourceGroups maps resources to their bookings, remembering the order in
// which each resource was first seen.
type ResourceGroups struct {
	order  []Resource
	groups map[Resource][]BookingView
}

func NewResourceGroups() *ResourceGroups {
	return &ResourceGroups{groups: make(map[Resource][]BookingView)}
}

func (g *ResourceGroups) Add(b BookingView) {
	if _, ok := g.groups[b.Resource]; !ok {
		g.order = append(g.order, b.Resource)
	}
	g.groups[b.Resource] = append(g.groups[b.Resource], b)
}

func (g *ResourceGroups) Keys() []Resource {
	out := make([]Resource, len(g.order))
	copy(out, g.order)
	return out
}

func (g *ResourceGroups) Get(r Resource) []BookingView {
	return g.groups[r]
}

func (g *ResourceGroups) Len() int {
	return len(g.order)
}

func (g *ResourceGroups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range g.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(r))
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(g.groups[r])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
