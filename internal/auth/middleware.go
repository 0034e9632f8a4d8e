package auth

import (
	"context"
	"fmt"
	"net/http"

	"instapic-ticketing/internal/logger"
)

type contextKey string

const kioskIDKey contextKey = "kiosk_id"

// MirrorMiddleware requires a kiosk bearer token signed with secret. When
// required is false, requests without a token pass through and tokens that
// are present are still verified.
func MirrorMiddleware(secret string, required bool, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" && !required {
				next.ServeHTTP(w, r)
				return
			}

			rawToken, err := ExtractTokenFromRequest(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			kioskID, err := VerifyMirrorToken(secret, rawToken)
			if err != nil {
				log.LogSecurity("MIRROR_AUTH", fmt.Sprintf("Rejected token from %s: %v", r.RemoteAddr, err))
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithKioskID(r.Context(), kioskID)))
		})
	}
}

// WithKioskID records the authenticated kiosk on ctx.
func WithKioskID(ctx context.Context, kioskID string) context.Context {
	return context.WithValue(ctx, kioskIDKey, kioskID)
}

// KioskID returns the authenticated kiosk, or "" for anonymous requests.
func KioskID(ctx context.Context) string {
	if id, ok := ctx.Value(kioskIDKey).(string); ok {
		return id
	}
	return ""
}
