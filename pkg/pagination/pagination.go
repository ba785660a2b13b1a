package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds pagination parameters extracted from a request. A zero Limit
// means the page is unbounded.
type Params struct {
	Limit  int
	Offset int
}

// FromContext reads limit and offset from the query string. Missing or
// malformed values fall back to the defaults; limit is capped at MaxLimit.
func FromContext(c echo.Context) Params {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	return Params{Limit: limit, Offset: offset}
}

// FromContextAll is FromContext for listings that return every row unless
// the client asks for a page: without a limit parameter Limit stays 0.
func FromContextAll(c echo.Context) Params {
	p := FromContext(c)
	if c.QueryParam("limit") == "" {
		p.Limit = 0
	}
	return p
}

// Unbounded reports whether every row after Offset is requested.
func (p Params) Unbounded() bool {
	return p.Limit == 0
}

// Probe is the row count to request from storage so a page can tell whether
// another page follows without a separate COUNT query.
// Unbounded pages probe 0, which storage reads as no limit.
func (p Params) Probe() int {
	if p.Unbounded() {
		return 0
	}
	return p.Limit + 1
}

// Trim cuts a probed result set down to the page size and reports whether
// more rows were available.
func Trim[T any](items []T, p Params) ([]T, bool) {
	if !p.Unbounded() && len(items) > p.Limit {
		return items[:p.Limit], true
	}
	return items, false
}

// HasPrevious returns true if there are results before the current page.
func (p Params) HasPrevious() bool {
	return p.Offset > 0
}

// NextOffset returns the offset for the next page.
func (p Params) NextOffset() int {
	return p.Offset + p.Limit
}

// Response wraps a paged list in the success envelope. NextOffset is set
// only when another page follows.
type Response struct {
	Status      string      `json:"status"`
	Data        interface{} `json:"data"`
	Limit       int         `json:"limit"`
	Offset      int         `json:"offset"`
	HasMore     bool        `json:"has_more"`
	HasPrevious bool        `json:"has_previous"`
	NextOffset  *int        `json:"next_offset,omitempty"`
}

func NewResponse(data interface{}, p Params, hasMore bool) *Response {
	r := &Response{
		Status:      "success",
		Data:        data,
		Limit:       p.Limit,
		Offset:      p.Offset,
		HasMore:     hasMore,
		HasPrevious: p.HasPrevious(),
	}
	if hasMore {
		next := p.NextOffset()
		r.NextOffset = &next
	}
	return r
}
