package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/bill-tracking/internal"
	"github.com/frahmantamala/bill-tracking/internal/auth"
)

// Auth verifies the bearer token and puts the caller's email into the
// request context for the handlers downstream.
func Auth(tokens *auth.TokenManager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw := strings.TrimPrefix(header, "Bearer ")
			if raw == "" || raw == header {
				writeUnauthorized(w, "missing bearer token")
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				logger.Warn("token rejected", "error", err)
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			ctx := internal.ContextWithEmail(r.Context(), claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    http.StatusUnauthorized,
		"message": message,
	})
}
