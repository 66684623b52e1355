package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPageSize is the standard page size when none is provided.
	DefaultPageSize = 25
	// MaxPageSize caps how many rows any list query can request.
	MaxPageSize = 100

	// Response headers carrying page metadata alongside the JSON body.
	HeaderTotalCount = "X-Total-Count"
	HeaderPageNumber = "X-Page-Number"
	HeaderPageSize   = "X-Page-Size"
)

// Params holds offset pagination inputs from controllers.
type Params struct {
	Page     int
	PageSize int
}

// FromRequest reads page/pageSize query parameters, applying defaults.
// Malformed or out-of-range values fall back rather than erroring; list
// endpoints return empty pages, never parse failures.
func FromRequest(r *http.Request) Params {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("pageSize"))
	return Normalize(Params{Page: page, PageSize: size})
}

// Normalize enforces the configured default and maximum page sizes.
func Normalize(p Params) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the normalized params.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the row limit for the normalized params.
func (p Params) Limit() int {
	return p.PageSize
}

// WriteHeaders attaches total-count/page metadata to the response.
func WriteHeaders(w http.ResponseWriter, p Params, total int64) {
	w.Header().Set(HeaderTotalCount, strconv.FormatInt(total, 10))
	w.Header().Set(HeaderPageNumber, strconv.Itoa(p.Page))
	w.Header().Set(HeaderPageSize, strconv.Itoa(p.PageSize))
}
