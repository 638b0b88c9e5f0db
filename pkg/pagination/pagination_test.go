package pagination

import (
	"net/http/httptest"
	"testing"
)

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		name  string
		input int
		want  int
	}{
		{name: "zero defaults", input: 0, want: DefaultLimit},
		{name: "negative defaults", input: -5, want: DefaultLimit},
		{name: "in range kept", input: 40, want: 40},
		{name: "over max clamped", input: 500, want: MaxLimit},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeLimit(tc.input); got != tc.want {
				t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/books?limit=150&offset=-3", nil)
	page := FromRequest(req)
	if page.Limit != MaxLimit {
		t.Fatalf("expected limit %d, got %d", MaxLimit, page.Limit)
	}
	if page.Offset != 0 {
		t.Fatalf("expected offset 0, got %d", page.Offset)
	}

	req = httptest.NewRequest("GET", "/api/v1/books?limit=abc&offset=50", nil)
	page = FromRequest(req)
	if page.Limit != DefaultLimit {
		t.Fatalf("expected default limit, got %d", page.Limit)
	}
	if page.Offset != 50 {
		t.Fatalf("expected offset 50, got %d", page.Offset)
	}
}
