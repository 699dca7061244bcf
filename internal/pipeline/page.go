package pipeline

import (
	"net/url"
	"strconv"
)

const (
	// DefaultLimit applies when a request names no page size.
	DefaultLimit = 10
	// MaxLimit bounds the page size a caller may request.
	MaxLimit = 20
)

// Page captures validated pagination parameters.
type Page struct {
	Number int64
	Limit  int64
}

// ParsePage reads page/limit query parameters, clamping page to a minimum
// of 1 and limit into [1, MaxLimit]. Unparseable values fall back to the
// defaults.
func ParsePage(values url.Values) Page {
	page := parseInt(values.Get("page"), 1)
	if page < 1 {
		page = 1
	}

	limit := parseInt(values.Get("limit"), DefaultLimit)
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Page{Number: page, Limit: limit}
}

// Skip returns the number of documents preceding this page.
func (p Page) Skip() int64 {
	return (p.Number - 1) * p.Limit
}

// Stages returns the skip/limit tail every paginated pipeline ends with.
func (p Page) Stages() []Stage {
	return []Stage{Skip(p.Skip()), Limit(p.Limit)}
}

// SortOrder captures a validated sort field and direction.
type SortOrder struct {
	Field     string
	Ascending bool
}

// ParseSort reads sortBy/sortType query parameters. With neither present
// the order is newest first on createdAt; an explicit sort ascends only
// for the direction token "asc".
func ParseSort(values url.Values) SortOrder {
	field := values.Get("sortBy")
	direction := values.Get("sortType")

	if field == "" && direction == "" {
		return SortOrder{Field: "createdAt", Ascending: false}
	}
	if field == "" {
		field = "createdAt"
	}
	return SortOrder{Field: field, Ascending: direction == "asc"}
}

// Stage returns the sort stage for this order.
func (s SortOrder) Stage() Stage {
	return Sort(s.Field, s.Ascending)
}

func parseInt(raw string, fallback int64) int64 {
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
