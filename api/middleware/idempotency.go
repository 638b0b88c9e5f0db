package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/kwlc-church/kwlc-backend/api/responses"
	pkgerrors "github.com/kwlc-church/kwlc-backend/pkg/errors"
	"github.com/kwlc-church/kwlc-backend/pkg/logger"
	pkgredis "github.com/kwlc-church/kwlc-backend/pkg/redis"
)

const (
	defaultIdempotencyTTL  = 24 * time.Hour
	criticalIdempotencyTTL = 7 * 24 * time.Hour
)

// Money-moving routes keep replay records longer than plain admin writes.
var idempotentRoutes = map[string]time.Duration{
	http.MethodPost + " /api/v1/donations":   defaultIdempotencyTTL,
	http.MethodPost + " /api/v1/admin/users": defaultIdempotencyTTL,
	http.MethodPost + " /api/v1/checkout":    criticalIdempotencyTTL,
}

type replayRecord struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Payload     string `json:"payload"`
	BodyDigest  string `json:"body_digest"`
}

// Idempotency makes configured POST routes replay-safe: the first response
// for an Idempotency-Key is stored in Redis and returned verbatim for
// retries, while a key reused with a different body is rejected.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, guarded := routeTTL(r.Method, chiPattern(r))
			if !guarded || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			clientKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if clientKey == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			digest := bodyDigest(body)
			storeKey := store.IdempotencyKey(callerScope(r), clientKey)

			prior, err := store.Get(r.Context(), storeKey)
			switch {
			case err != nil && !errors.Is(err, redis.Nil):
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			case prior != "":
				replayPrior(r.Context(), logg, w, prior, digest)
				return
			}

			tap := &responseTap{ResponseWriter: w}
			next.ServeHTTP(tap, r)

			record := replayRecord{
				Status:      tap.statusOrOK(),
				ContentType: tap.Header().Get("Content-Type"),
				Payload:     base64.StdEncoding.EncodeToString(tap.buf.Bytes()),
				BodyDigest:  digest,
			}
			encoded, err := json.Marshal(record)
			if err != nil {
				warnStoreFailure(r.Context(), logg, "marshal idempotency record", err)
				return
			}
			if _, err := store.SetNX(r.Context(), storeKey, string(encoded), ttl); err != nil {
				warnStoreFailure(r.Context(), logg, "persist idempotency record", err)
			}
		})
	}
}

func replayPrior(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, prior, digest string) {
	var record replayRecord
	if err := json.Unmarshal([]byte(prior), &record); err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
		return
	}
	if record.BodyDigest != digest {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
		return
	}

	if record.ContentType != "" {
		w.Header().Set("Content-Type", record.ContentType)
	}
	w.WriteHeader(record.Status)
	if payload, err := base64.StdEncoding.DecodeString(record.Payload); err == nil {
		_, _ = w.Write(payload)
	}
}

// callerScope binds a record to the actor and route so two callers cannot
// collide on the same Idempotency-Key value.
func callerScope(r *http.Request) string {
	parts := []string{
		UserIDFromContext(r.Context()),
		CartSessionFromContext(r.Context()),
		r.Method,
		r.URL.Path,
	}
	return strings.Join(parts, "|")
}

func bodyDigest(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func chiPattern(r *http.Request) string {
	if r == nil {
		return ""
	}
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

func routeTTL(method, pattern string) (time.Duration, bool) {
	ttl, ok := idempotentRoutes[method+" "+pattern]
	return ttl, ok
}

// responseTap duplicates the response into a buffer so it can be stored for
// replay while still streaming to the client.
type responseTap struct {
	http.ResponseWriter
	buf  bytes.Buffer
	code int
}

func (t *responseTap) WriteHeader(status int) {
	t.code = status
	t.ResponseWriter.WriteHeader(status)
}

func (t *responseTap) Write(b []byte) (int, error) {
	if t.code == 0 {
		t.code = http.StatusOK
	}
	t.buf.Write(b)
	return t.ResponseWriter.Write(b)
}

func (t *responseTap) statusOrOK() int {
	if t.code == 0 {
		return http.StatusOK
	}
	return t.code
}

func warnStoreFailure(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg == nil || err == nil {
		return
	}
	logg.Error(ctx, msg, err)
}
