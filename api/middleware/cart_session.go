package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kwlc-church/kwlc-backend/pkg/logger"
)

// CartSessionCookie identifies a visitor's cart across requests.
const CartSessionCookie = "kwlc_cart"

// CartSession reads the cart cookie, minting a fresh session ID when the
// cookie is missing or does not parse as a UUID. The session ID is exposed to
// handlers via the request context.
func CartSession(ttl time.Duration, secure bool, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(CartSessionCookie); err == nil {
				if parsed, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
					sessionID = parsed.String()
				}
			}

			minted := false
			if sessionID == "" {
				sessionID = uuid.NewString()
				minted = true
			}

			if minted {
				http.SetCookie(w, &http.Cookie{
					Name:     CartSessionCookie,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithCartSession(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
