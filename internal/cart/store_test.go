package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/kwlc-church/kwlc-backend/pkg/config"
)

type fakeBackend struct {
	mu       sync.Mutex
	data     map[string]string
	getErr   error
	setErr   error
	getCalls int
	setCalls int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{data: map[string]string{}}
}

func (f *fakeBackend) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return "", f.getErr
	}
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redislib.Nil
}

func (f *fakeBackend) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeBackend) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeBackend) CartKey(sessionID string) string {
	return "kwlc:cart:" + sessionID
}

func newTestStore(t *testing.T, backend *fakeBackend) *Store {
	t.Helper()
	store, err := NewStore(backend, config.CartConfig{TTL: time.Hour, MaxQuantity: maxTestQty}, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestStoreMutatePersistsEnvelope(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	store := newTestStore(t, backend)
	ctx := context.Background()

	cart, err := store.Mutate(ctx, "sess-1", func(c *Cart) error {
		return c.Add(sampleItem("b1", 150000), 2, store.MaxQuantity())
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if cart.ItemCount() != 2 {
		t.Fatalf("unexpected snapshot %+v", cart)
	}

	raw, ok := backend.data["kwlc:cart:sess-1"]
	if !ok {
		t.Fatal("expected durable copy written")
	}
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("decode stored payload: %v", err)
	}
	if env.Version != envelopeVersion {
		t.Fatalf("expected version %d, got %d", envelopeVersion, env.Version)
	}
	if len(env.Lines) != 1 || env.Lines[0].ID != "b1" {
		t.Fatalf("unexpected stored lines %+v", env.Lines)
	}
}

func TestStoreHydratesFromEnvelope(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	payload, _ := json.Marshal(envelope{Version: 1, Lines: []Line{{ID: "b1", Title: "T", PriceKobo: 100, Quantity: 3}}})
	backend.data["kwlc:cart:sess-2"] = string(payload)
	store := newTestStore(t, backend)

	cart, err := store.Get(context.Background(), "sess-2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cart.ItemCount() != 3 || !cart.Contains("b1") {
		t.Fatalf("hydration failed: %+v", cart)
	}
}

func TestStoreHydratesLegacyBareArray(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.data["kwlc:cart:sess-3"] = `[{"id":"b1","title":"T","author":"A","price_kobo":500,"quantity":2}]`
	store := newTestStore(t, backend)
	ctx := context.Background()

	cart, err := store.Get(ctx, "sess-3")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cart.ItemCount() != 2 {
		t.Fatalf("legacy payload not accepted: %+v", cart)
	}

	// next mutation rewrites the durable copy in envelope form
	if _, err := store.Mutate(ctx, "sess-3", func(c *Cart) error { return nil }); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	var env envelope
	if err := json.Unmarshal([]byte(backend.data["kwlc:cart:sess-3"]), &env); err != nil || env.Version != envelopeVersion {
		t.Fatalf("expected upgraded envelope, got %q (%v)", backend.data["kwlc:cart:sess-3"], err)
	}
}

func TestStoreCorruptPayloadFallsBackToEmpty(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.data["kwlc:cart:sess-4"] = `{not json`
	store := newTestStore(t, backend)

	cart, err := store.Get(context.Background(), "sess-4")
	if err != nil {
		t.Fatalf("corrupt payload must not error: %v", err)
	}
	if cart.ItemCount() != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}

func TestStoreReadErrorFallsBackToEmpty(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.getErr = errors.New("redis down")
	store := newTestStore(t, backend)

	cart, err := store.Get(context.Background(), "sess-5")
	if err != nil {
		t.Fatalf("read error must not surface: %v", err)
	}
	if cart.ItemCount() != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}

func TestStoreWriteFailureKeepsMemoryAuthoritative(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.setErr = errors.New("redis down")
	store := newTestStore(t, backend)
	ctx := context.Background()

	cart, err := store.Mutate(ctx, "sess-6", func(c *Cart) error {
		return c.Add(sampleItem("b1", 100), 1, store.MaxQuantity())
	})
	if err != nil {
		t.Fatalf("write failure must not fail the mutation: %v", err)
	}
	if cart.ItemCount() != 1 {
		t.Fatalf("unexpected snapshot %+v", cart)
	}

	// the in-memory copy keeps serving reads
	cart, err = store.Get(ctx, "sess-6")
	if err != nil || cart.ItemCount() != 1 {
		t.Fatalf("in-memory cart lost: %+v (%v)", cart, err)
	}
}

func TestStoreLoadsDurableCopyOnce(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	store := newTestStore(t, backend)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := store.Get(ctx, "sess-7"); err != nil {
			t.Fatalf("get: %v", err)
		}
	}
	if backend.getCalls != 1 {
		t.Fatalf("expected a single hydration read, got %d", backend.getCalls)
	}
}

func TestStoreClearDeletesDurableCopy(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	store := newTestStore(t, backend)
	ctx := context.Background()

	if _, err := store.Mutate(ctx, "sess-8", func(c *Cart) error {
		return c.Add(sampleItem("b1", 100), 1, store.MaxQuantity())
	}); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if _, ok := backend.data["kwlc:cart:sess-8"]; !ok {
		t.Fatal("expected durable copy before clear")
	}

	if _, err := store.Mutate(ctx, "sess-8", func(c *Cart) error {
		c.Clear()
		return nil
	}); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := backend.data["kwlc:cart:sess-8"]; ok {
		t.Fatal("expected durable copy deleted after clear")
	}
}

func TestStoreClearReleasesSessionEntry(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	store := newTestStore(t, backend)
	ctx := context.Background()

	if _, err := store.Mutate(ctx, "sess-10", func(c *Cart) error {
		return c.Add(sampleItem("b1", 100), 1, store.MaxQuantity())
	}); err != nil {
		t.Fatalf("mutate: %v", err)
	}

	if _, err := store.Mutate(ctx, "sess-10", func(c *Cart) error {
		c.Clear()
		return nil
	}); err != nil {
		t.Fatalf("clear: %v", err)
	}

	store.mu.Lock()
	_, held := store.sessions["sess-10"]
	store.mu.Unlock()
	if held {
		t.Fatal("cleared cart should not be held in memory")
	}
}

func TestStoreExpiredSessionDoesNotResurrect(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	store, err := NewStore(backend, config.CartConfig{TTL: 10 * time.Millisecond, MaxQuantity: maxTestQty}, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	if _, err := store.Mutate(ctx, "sess-11", func(c *Cart) error {
		return c.Add(sampleItem("b1", 100), 2, store.MaxQuantity())
	}); err != nil {
		t.Fatalf("mutate: %v", err)
	}

	// the durable copy expires in Redis, the idle in-memory entry must not
	// outlive it
	backend.mu.Lock()
	delete(backend.data, "kwlc:cart:sess-11")
	backend.mu.Unlock()
	time.Sleep(20 * time.Millisecond)

	cart, err := store.Get(ctx, "sess-11")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cart.ItemCount() != 0 {
		t.Fatalf("expired cart resurrected: %+v", cart)
	}
}

func TestStoreSerializesConcurrentMutations(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	store := newTestStore(t, backend)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, _ = store.Mutate(ctx, "sess-9", func(c *Cart) error {
				return c.Add(sampleItem("b1", 100), 1, store.MaxQuantity())
			})
		}()
	}
	wg.Wait()

	cart, err := store.Get(ctx, "sess-9")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cart.ItemCount() != workers {
		t.Fatalf("expected %d items after %d serialized adds, got %d", workers, workers, cart.ItemCount())
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(cart.Lines))
	}
}
