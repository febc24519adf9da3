// Package pagination holds the offset pagination used by every list view:
// the client-side Controller that derives skip/limit from page state, and
// the server-side Query parsed from list endpoint parameters.
package pagination

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hrms-portal/internal/pkg/validator"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Query is the skip/limit window plus search term sent to list endpoints.
type Query struct {
	Skip   int    `json:"skip"`
	Limit  int    `json:"limit"`
	Search string `json:"search,omitempty"`
}

// PageIndex is the zero-based page the window starts on.
func (q Query) PageIndex() int {
	if q.Limit <= 0 {
		return 0
	}
	return q.Skip / q.Limit
}

// Values encodes the query the way ParseQuery reads it.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("skip", strconv.Itoa(q.Skip))
	v.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

// Defaults configures ParseQuery.
type Defaults struct {
	Limit    int
	MaxLimit int
}

func (d Defaults) normalized() Defaults {
	if d.MaxLimit <= 0 {
		d.MaxLimit = MaxLimit
	}
	if d.Limit <= 0 {
		d.Limit = DefaultLimit
	}
	if d.Limit > d.MaxLimit {
		d.Limit = d.MaxLimit
	}
	return d
}

// ParseQuery reads skip, limit and search. A zero-based page/page_size pair
// is accepted instead of skip/limit.
func ParseQuery(values url.Values, defaults Defaults) (Query, error) {
	defaults = defaults.normalized()
	var errs validator.ValidationErrors

	q := Query{Limit: defaults.Limit}

	limitKey := "limit"
	if values.Get("limit") == "" && values.Get("page_size") != "" {
		limitKey = "page_size"
	}
	if raw := values.Get(limitKey); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			errs = append(errs, validator.ValidationError{Field: limitKey, Message: limitKey + " must be a number"})
		case n <= 0:
			errs = append(errs, validator.ValidationError{Field: limitKey, Message: limitKey + " must be a positive number"})
		case n > defaults.MaxLimit:
			errs = append(errs, validator.ValidationError{Field: limitKey, Message: limitKey + " must not exceed " + strconv.Itoa(defaults.MaxLimit)})
		default:
			q.Limit = n
		}
	}

	if raw := values.Get("skip"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			errs = append(errs, validator.ValidationError{Field: "skip", Message: "skip must be a number"})
		case n < 0:
			errs = append(errs, validator.ValidationError{Field: "skip", Message: "skip must not be negative"})
		default:
			q.Skip = n
		}
	} else if raw := values.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a number"})
		case n < 0:
			errs = append(errs, validator.ValidationError{Field: "page", Message: "page must not be negative"})
		default:
			q.Skip = n * q.Limit
		}
	}

	q.Search = strings.TrimSpace(values.Get("search"))
	if len(q.Search) > 255 {
		errs = append(errs, validator.ValidationError{Field: "search", Message: "search must not exceed 255 characters"})
	}

	if len(errs) > 0 {
		return Query{}, errs
	}
	return q, nil
}

// Meta is the pagination block of a list response.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Skip       int   `json:"skip"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewMeta reports the one-based page the query lands on.
func NewMeta(q Query, total int64) Meta {
	totalPages := 0
	if q.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(q.Limit)))
	}
	return Meta{
		Page:       q.PageIndex() + 1,
		Limit:      q.Limit,
		Skip:       q.Skip,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
