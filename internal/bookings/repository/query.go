package repository

import (
	"roombook/internal/bookings/status"
	"roombook/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Query is a conjunctive booking filter plus paging. Zero fields do not
// constrain; Limit 0 returns every match.
type Query struct {
	Resource         model.Resource
	RequesterPattern string // regex-escaped, matched case-insensitively
	StartFrom        *time.Time
	StartTo          *time.Time
	Bounds           status.Bounds

	SortBy    string
	SortOrder model.SortOrder
	Skip      int64
	Limit     int64
}

func (q Query) filter() bson.M {
	filter := bson.M{}

	if q.Resource != "" {
		filter["resource"] = q.Resource
	}
	if q.RequesterPattern != "" {
		filter["requested_by"] = bson.M{"$regex": q.RequesterPattern, "$options": "i"}
	}

	start := bson.M{}
	end := bson.M{}
	if q.StartFrom != nil {
		start["$gte"] = *q.StartFrom
	}
	if q.StartTo != nil {
		start["$lte"] = *q.StartTo
	}
	if q.Bounds.StartAfter != nil {
		start["$gt"] = *q.Bounds.StartAfter
	}
	if q.Bounds.StartAtMost != nil {
		start["$lte"] = minTimePtr(start["$lte"], *q.Bounds.StartAtMost)
	}
	if q.Bounds.EndAtLeast != nil {
		end["$gte"] = *q.Bounds.EndAtLeast
	}
	if q.Bounds.EndBefore != nil {
		end["$lt"] = *q.Bounds.EndBefore
	}
	if len(start) > 0 {
		filter["start"] = start
	}
	if len(end) > 0 {
		filter["end"] = end
	}

	return filter
}

func minTimePtr(existing any, t time.Time) time.Time {
	if prev, ok := existing.(time.Time); ok && prev.Before(t) {
		return prev
	}
	return t
}

func (q Query) sort() bson.D {
	field := q.SortBy
	if field == "" {
		field = "start"
	}
	dir := 1
	if q.SortOrder == model.SortDesc {
		dir = -1
	}
	sort := bson.D{{Key: field, Value: dir}}
	if field != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: 1})
	}
	return sort
}
