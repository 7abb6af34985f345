package http

import (
	"net/http"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var sortableFields = map[string]string{
	"start":           "start",
	"end":             "end",
	"resource":        "resource",
	"requestedBy":     "requested_by",
	"durationMinutes": "duration_minutes",
	"createdAt":       "created_at",
}

// ExtractPagination reads page, limit, sortBy and sortOrder. sortBy is
// translated to its storage field name; unknown fields are rejected.
func ExtractPagination(r *http.Request) (model.Pagination, error) {
	query := r.URL.Query()

	page := 0
	if s := query.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return model.Pagination{}, apperrors.InvalidInput("invalid page parameter: " + s)
		}
		page = v
	}

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return model.Pagination{}, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	p := model.Pagination{
		Page:  config.NormalizePage(page),
		Limit: config.NormalizePaginationLimit(limit),
	}

	if s := strings.TrimSpace(query.Get("sortBy")); s != "" {
		field, ok := sortableFields[s]
		if !ok {
			return model.Pagination{}, apperrors.InvalidInput("invalid sortBy parameter: " + s)
		}
		p.SortBy = field
	}

	switch strings.ToLower(strings.TrimSpace(query.Get("sortOrder"))) {
	case "":
	case "asc":
		p.SortOrder = model.SortAsc
	case "desc":
		p.SortOrder = model.SortDesc
	default:
		return model.Pagination{}, apperrors.InvalidInput("invalid sortOrder parameter, must be asc or desc")
	}

	return p, nil
}

// ParseDate accepts YYYY-MM-DD, interpreted in loc, or a full RFC3339 timestamp.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(DateLayout, value, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("invalid date parameter, must be YYYY-MM-DD or RFC3339: " + value)
	}
	return t.In(loc), nil
}
