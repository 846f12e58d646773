// Package pagination implements the cursor paging contract shared by
// comment, like, and video listings. The cursor is the id of the last item
// of the previous page and marks an exclusive start-after position.
package pagination

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// Order is the sort direction of a listing.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

const (
	// DefaultSortBy orders listings by recency.
	DefaultSortBy = "createdAt"
	// DefaultLimit is the page size when the caller does not specify one.
	DefaultLimit = 10
	// MaxLimit caps the page size a caller may request.
	MaxLimit = 100
)

// Request describes one page of a cursor-paginated listing.
type Request struct {
	SortBy string
	Order  Order
	Limit  int
	// Cursor is the id of the last item of the previous page.
	// uuid.Nil means start from the beginning.
	Cursor uuid.UUID
}

// Normalize fills in defaults and clamps the limit.
func (r Request) Normalize() Request {
	if r.SortBy == "" {
		r.SortBy = DefaultSortBy
	}
	if r.Order != OrderAsc {
		r.Order = OrderDesc
	}
	if r.Limit <= 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	return r
}

// HasCursor reports whether the request resumes from a previous page.
func (r Request) HasCursor() bool {
	return r.Cursor != uuid.Nil
}

// FetchLimit is the number of rows a repository should fetch: one extra row
// beyond the page size, so HasNextPage is exact instead of guessed from a
// full batch.
func (r Request) FetchLimit() int {
	return r.Limit + 1
}

// FromQuery parses a Request from URL query parameters
// (cursor, limit, sortBy, sortType).
func FromQuery(q url.Values) (Request, error) {
	req := Request{
		SortBy: q.Get("sortBy"),
		Order:  Order(q.Get("sortType")),
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return Request{}, fmt.Errorf("invalid limit %q: %w", raw, err)
		}
		req.Limit = limit
	}

	if raw := q.Get("cursor"); raw != "" {
		cursor, err := uuid.Parse(raw)
		if err != nil {
			return Request{}, fmt.Errorf("invalid cursor %q: %w", raw, err)
		}
		req.Cursor = cursor
	}

	return req.Normalize(), nil
}

// Page is one page of a listing plus the metadata needed to fetch the next.
type Page[T any] struct {
	Items       []T
	NextCursor  uuid.UUID // uuid.Nil when there is no next page
	HasNextPage bool
}

// NewPage assembles a Page from a batch fetched with FetchLimit look-ahead.
// A batch longer than limit proves a next page exists; the extra row is
// trimmed before the page is returned.
func NewPage[T any](batch []T, limit int, id func(T) uuid.UUID) Page[T] {
	page := Page[T]{Items: batch}

	if len(batch) > limit {
		page.Items = batch[:limit]
		page.HasNextPage = true
		page.NextCursor = id(page.Items[limit-1])
	}

	return page
}
