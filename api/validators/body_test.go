package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/kwlc-church/kwlc-backend/pkg/errors"
)

type sampleBody struct {
	Title    string `json:"title" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=1,max=999"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"Prayer Rain","quantity":2}`))
	var body sampleBody
	if err := DecodeJSONBody(req, &body); err != nil {
		t.Fatalf("expected valid body, got %v", err)
	}
	if body.Title != "Prayer Rain" || body.Quantity != 2 {
		t.Fatalf("unexpected decoded body: %+v", body)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"x","quantity":1,"extra":true}`))
	var body sampleBody
	err := DecodeJSONBody(req, &body)
	if err == nil {
		t.Fatalf("expected unknown field rejection")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyValidationDetails(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"","quantity":0}`))
	var body sampleBody
	err := DecodeJSONBody(req, &body)
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if details["title"] != "is required" {
		t.Fatalf("unexpected title message %q", details["title"])
	}
	if details["quantity"] != "must be at least 1" {
		t.Fatalf("unexpected quantity message %q", details["quantity"])
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=30", nil)
	got, err := ParseQueryInt(req, "limit", 25, 1, 100)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != 30 {
		t.Fatalf("expected 30, got %d", got)
	}

	req = httptest.NewRequest("GET", "/?limit=5000", nil)
	if _, err := ParseQueryInt(req, "limit", 25, 1, 100); err == nil {
		t.Fatalf("expected out-of-range error")
	}

	req = httptest.NewRequest("GET", "/", nil)
	got, err = ParseQueryInt(req, "limit", 25, 1, 100)
	if err != nil || got != 25 {
		t.Fatalf("expected default 25, got %d (%v)", got, err)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello  ", 0); got != "hello" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SanitizeString("abcdef", 3); got != "abc" {
		t.Fatalf("unexpected %q", got)
	}
}
