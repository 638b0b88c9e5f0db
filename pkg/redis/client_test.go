package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type memoryCmdable struct {
	values   map[string]string
	counters map[string]int64
	expired  map[string]time.Duration
}

func newMemoryCmdable() *memoryCmdable {
	return &memoryCmdable{
		values:   map[string]string{},
		counters: map[string]int64{},
		expired:  map[string]time.Duration{},
	}
}

func (m *memoryCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *memoryCmdable) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	m.values[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryCmdable) Get(_ context.Context, key string) *redis.StringCmd {
	if v, ok := m.values[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (m *memoryCmdable) SetNX(_ context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	if _, taken := m.values[key]; taken {
		return redis.NewBoolResult(false, nil)
	}
	m.values[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *memoryCmdable) Incr(_ context.Context, key string) *redis.IntCmd {
	m.counters[key]++
	return redis.NewIntResult(m.counters[key], nil)
}

func (m *memoryCmdable) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	m.expired[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (m *memoryCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.values, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	mock := newMemoryCmdable()
	client := &Client{store: mock}

	// first two increments stay under the limit, the third is rejected
	for i, wantAllowed := range []bool{true, true, false} {
		allowed, count, err := client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
		if err != nil {
			t.Fatalf("call %d: %v", i+1, err)
		}
		if allowed != wantAllowed {
			t.Fatalf("call %d: allowed=%v, want %v (count=%d)", i+1, allowed, wantAllowed, count)
		}
	}

	if len(mock.expired) != 1 {
		t.Fatalf("window TTL set on %d keys, want exactly 1", len(mock.expired))
	}
}

func TestCartValueLifecycle(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMemoryCmdable()}
	key := client.CartKey("sess-1")
	payload := `{"version":1,"lines":[]}`

	if err := client.Set(ctx, key, payload, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	stored, err := client.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored != payload {
		t.Fatalf("stored value %q, want %q", stored, payload)
	}

	if err := client.Del(ctx, key); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := client.Get(ctx, key); err != redis.Nil {
		t.Fatalf("get after delete: got %v, want redis.Nil", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	keys := map[string]string{
		client.CartKey("abc"):               "kwlc:cart:abc",
		client.IdempotencyKey("scope", "x"): "kwlc:idempotency:scope:x",
		client.RateLimitKey("scope"):        "kwlc:rate_limit:scope",
		client.AccessSessionKey("jti"):      "kwlc:session:access:jti",
	}
	for got, want := range keys {
		if got != want {
			t.Errorf("key %q, want %q", got, want)
		}
	}
}

func TestNilClientReturnsErrors(t *testing.T) {
	ctx := context.Background()
	var client *Client

	if err := client.Ping(ctx); err == nil {
		t.Fatal("ping on nil client must fail")
	}
	if _, err := client.Get(ctx, "k"); err == nil {
		t.Fatal("get on nil client must fail")
	}
	if err := client.Set(ctx, "k", "v", time.Minute); err == nil {
		t.Fatal("set on nil client must fail")
	}
	if _, _, err := client.FixedWindowAllow(ctx, "s", 1, time.Second); err == nil {
		t.Fatal("rate limit on nil client must fail")
	}
}
