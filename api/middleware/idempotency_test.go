package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/kwlc-church/kwlc-backend/pkg/errors"
)

type memoryIdempotencyStore struct {
	records map[string]string
}

func (s *memoryIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	v, ok := s.records[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (s *memoryIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, taken := s.records[key]; taken {
		return false, nil
	}
	s.records[key] = value.(string)
	return true, nil
}

func (s *memoryIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.records, key)
	}
	return nil
}

func (s *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "test:" + scope + ":" + id
}

func postJSON(t *testing.T, mw func(http.Handler) http.Handler, handler http.Handler, pattern, key, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, pattern, strings.NewReader(body))
	rc := chi.NewRouteContext()
	rc.RoutePatterns = []string{pattern}
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)
	return resp
}

func TestRouteTTLSelection(t *testing.T) {
	checks := map[string]struct {
		method  string
		pattern string
		ttl     time.Duration
		guarded bool
	}{
		"checkout holds records a week": {http.MethodPost, "/api/v1/checkout", criticalIdempotencyTTL, true},
		"donations use the default":     {http.MethodPost, "/api/v1/donations", defaultIdempotencyTTL, true},
		"admin user creation guarded":   {http.MethodPost, "/api/v1/admin/users", defaultIdempotencyTTL, true},
		"login is not guarded":          {http.MethodPost, "/api/v1/auth/login", 0, false},
		"cart writes are not guarded":   {http.MethodPost, "/api/v1/cart/items", 0, false},
		"checkout GET is not guarded":   {http.MethodGet, "/api/v1/checkout", 0, false},
	}

	for name, tc := range checks {
		ttl, guarded := routeTTL(tc.method, tc.pattern)
		if guarded != tc.guarded || ttl != tc.ttl {
			t.Errorf("%s: got ttl=%v guarded=%v, want ttl=%v guarded=%v", name, ttl, guarded, tc.ttl, tc.guarded)
		}
	}
}

func TestIdempotencyRejectsMissingKey(t *testing.T) {
	store := &memoryIdempotencyStore{records: map[string]string{}}
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	})

	resp := postJSON(t, Idempotency(store, nil), handler, "/api/v1/checkout", "", `{"foo":"bar"}`)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", resp.Code)
	}
	if calls != 0 {
		t.Fatal("handler must not run when the key header is absent")
	}
}

func TestIdempotencyReplaysFirstResponse(t *testing.T) {
	store := &memoryIdempotencyStore{records: map[string]string{}}
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	mw := Idempotency(store, nil)

	first := postJSON(t, mw, handler, "/api/v1/checkout", "order-1", `{"foo":"bar"}`)
	if first.Code != http.StatusAccepted {
		t.Fatalf("first call: got %d, want 202", first.Code)
	}

	replay := postJSON(t, mw, handler, "/api/v1/checkout", "order-1", `{"foo":"bar"}`)
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
	if replay.Code != http.StatusAccepted {
		t.Fatalf("replay: got %d, want 202", replay.Code)
	}
	if got := replay.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("replay content type: got %q", got)
	}
	if body := strings.TrimSpace(replay.Body.String()); body != `{"ok":true}` {
		t.Fatalf("replay body: got %s", body)
	}
}

func TestIdempotencyConflictsOnChangedBody(t *testing.T) {
	store := &memoryIdempotencyStore{records: map[string]string{}}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	})
	mw := Idempotency(store, nil)

	postJSON(t, mw, handler, "/api/v1/donations", "don-9", `{"amount":"50.00"}`)
	resp := postJSON(t, mw, handler, "/api/v1/donations", "don-9", `{"amount":"5000.00"}`)

	if resp.Code != http.StatusConflict {
		t.Fatalf("got %d, want 409", resp.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("error code: got %s, want %s", payload.Error.Code, pkgerrors.CodeIdempotency)
	}
}

func TestIdempotencyIgnoresUnguardedRoutes(t *testing.T) {
	store := &memoryIdempotencyStore{records: map[string]string{}}
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})
	mw := Idempotency(store, nil)

	for i := 0; i < 2; i++ {
		resp := postJSON(t, mw, handler, "/api/v1/auth/login", "", `{"email":"a@b.c"}`)
		if resp.Code != http.StatusOK {
			t.Fatalf("got %d, want 200", resp.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("handler ran %d times, want 2", calls)
	}
	if len(store.records) != 0 {
		t.Fatal("unguarded route must not store records")
	}
}
