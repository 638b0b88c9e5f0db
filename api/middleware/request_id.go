package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kwlc-church/kwlc-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with a correlation id, honoring a well-formed
// inbound header so ids survive proxy hops.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := inboundRequestID(r)
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func inboundRequestID(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get(requestIDHeader))
	if raw == "" || len(raw) > 64 {
		return uuid.NewString()
	}
	return raw
}
