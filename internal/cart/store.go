package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/kwlc-church/kwlc-backend/pkg/config"
	"github.com/kwlc-church/kwlc-backend/pkg/logger"
)

// envelopeVersion tags the persisted payload so future schema changes can
// migrate on read.
const envelopeVersion = 1

type envelope struct {
	Version int    `json:"version"`
	Lines   []Line `json:"lines"`
}

type cartBackend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// Store owns the in-memory carts and their durable copies in Redis. The
// in-memory cart is authoritative for the lifetime of a session entry; Redis
// is hydration state plus a write-behind copy. A failed write never fails
// the mutation.
type Store struct {
	backend cartBackend
	logg    *logger.Logger
	ttl     time.Duration
	maxQty  int

	mu        sync.Mutex
	sessions  map[string]*sessionEntry
	nextSweep time.Time
}

type sessionEntry struct {
	mu     sync.Mutex
	cart   Cart
	loaded bool

	// touched is guarded by Store.mu, not the entry lock.
	touched time.Time
}

// sweepEvery bounds how often the session map is scanned for idle entries.
const sweepEvery = time.Minute

// NewStore builds the cart store.
func NewStore(backend cartBackend, cfg config.CartConfig, logg *logger.Logger) (*Store, error) {
	if backend == nil {
		return nil, errors.New("cart backend required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 720 * time.Hour
	}
	return &Store{
		backend:  backend,
		logg:     logg,
		ttl:      ttl,
		maxQty:   cfg.MaxQuantity,
		sessions: make(map[string]*sessionEntry),
	}, nil
}

// MaxQuantity is the per-line quantity cap applied on add and update.
func (s *Store) MaxQuantity() int {
	return s.maxQty
}

// Get returns a snapshot of the session's cart, hydrating from Redis on
// first touch.
func (s *Store) Get(ctx context.Context, sessionID string) (Cart, error) {
	if sessionID == "" {
		return Cart{}, errors.New("session id required")
	}
	entry := s.entry(sessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	s.hydrate(ctx, sessionID, entry)
	return entry.cart.Clone(), nil
}

// Mutate runs fn against the session's cart under the per-session lock and
// persists the result. The returned snapshot reflects the post-mutation
// state even when the durable write failed.
func (s *Store) Mutate(ctx context.Context, sessionID string, fn func(c *Cart) error) (Cart, error) {
	if sessionID == "" {
		return Cart{}, errors.New("session id required")
	}
	entry := s.entry(sessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	s.hydrate(ctx, sessionID, entry)

	if err := fn(&entry.cart); err != nil {
		return Cart{}, err
	}

	durable := s.persist(ctx, sessionID, entry.cart)
	if durable && len(entry.cart.Lines) == 0 {
		s.drop(sessionID)
	}
	return entry.cart.Clone(), nil
}

// entry returns the live entry for a session, discarding one idle past the
// cart TTL so a cart expired in Redis cannot resurrect from memory.
func (s *Store) entry(sessionID string) *sessionEntry {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(now)

	entry, ok := s.sessions[sessionID]
	if ok && now.Sub(entry.touched) > s.ttl {
		delete(s.sessions, sessionID)
		ok = false
	}
	if !ok {
		entry = &sessionEntry{}
		s.sessions[sessionID] = entry
	}
	entry.touched = now
	return entry
}

func (s *Store) drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// sweep evicts idle entries, at most once per sweepEvery. Callers hold
// Store.mu.
func (s *Store) sweep(now time.Time) {
	if now.Before(s.nextSweep) {
		return
	}
	s.nextSweep = now.Add(sweepEvery)
	for id, entry := range s.sessions {
		if now.Sub(entry.touched) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

// hydrate loads the durable cart exactly once per session entry. Unreadable
// payloads degrade to an empty cart; read errors other than a missing key
// are logged and also degrade to empty rather than failing the request.
func (s *Store) hydrate(ctx context.Context, sessionID string, entry *sessionEntry) {
	if entry.loaded {
		return
	}
	entry.loaded = true

	raw, err := s.backend.Get(ctx, s.backend.CartKey(sessionID))
	if err != nil {
		if !errors.Is(err, redislib.Nil) && s.logg != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{"error": err.Error()})
			s.logg.Warn(logCtx, "cart.load.failed")
		}
		return
	}

	lines, ok := decodeLines(raw)
	if !ok {
		if s.logg != nil {
			s.logg.Warn(ctx, "cart.load.corrupt")
		}
		return
	}
	entry.cart = Cart{Lines: lines}
}

// persist writes the durable copy and reports whether it now matches the
// in-memory cart.
func (s *Store) persist(ctx context.Context, sessionID string, cart Cart) bool {
	key := s.backend.CartKey(sessionID)

	if len(cart.Lines) == 0 {
		if err := s.backend.Del(ctx, key); err != nil {
			s.warnPersist(ctx, err)
			return false
		}
		return true
	}

	payload, err := json.Marshal(envelope{Version: envelopeVersion, Lines: cart.Lines})
	if err != nil {
		s.warnPersist(ctx, err)
		return false
	}
	if err := s.backend.Set(ctx, key, string(payload), s.ttl); err != nil {
		s.warnPersist(ctx, err)
		return false
	}
	return true
}

func (s *Store) warnPersist(ctx context.Context, err error) {
	if s.logg == nil {
		return
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{"error": err.Error()})
	s.logg.Warn(logCtx, "cart.persist.failed")
}

// decodeLines accepts the current versioned envelope and, as a legacy
// fallback, a bare array of lines. Anything else is treated as corrupt.
func decodeLines(raw string) ([]Line, bool) {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err == nil && env.Version >= 1 {
		return sanitizeLines(env.Lines), true
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err == nil {
		return sanitizeLines(lines), true
	}
	return nil, false
}

// sanitizeLines drops structurally invalid lines instead of rejecting the
// whole payload.
func sanitizeLines(lines []Line) []Line {
	out := lines[:0]
	for _, line := range lines {
		if line.ID == "" || line.Quantity < 1 || line.PriceKobo < 0 {
			continue
		}
		out = append(out, line)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
