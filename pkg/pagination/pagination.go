package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is applied when the client omits the limit parameter.
	DefaultLimit = 25
	// MaxLimit caps page sizes regardless of what the client asks for.
	MaxLimit = 100
)

// Page carries normalized limit/offset values parsed from a request.
type Page struct {
	Limit  int
	Offset int
}

// FromRequest reads limit/offset query parameters and normalizes them.
// Invalid or missing values fall back to defaults rather than erroring.
func FromRequest(r *http.Request) Page {
	return Page{
		Limit:  NormalizeLimit(parseInt(r.URL.Query().Get("limit"))),
		Offset: NormalizeOffset(parseInt(r.URL.Query().Get("offset"))),
	}
}

// NormalizeLimit clamps a requested page size to [1, MaxLimit], defaulting
// non-positive values to DefaultLimit.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizeOffset floors negative offsets at zero.
func NormalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
