package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/bill-tracking/pkg/logger"
)

// Recovery turns a handler panic into a 500 response. The panic value
// and stack go to the request logger only; the client sees a generic
// body plus the trace id to quote when reporting it.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.From(r.Context()).Error("panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"code":     http.StatusInternalServerError,
					"message":  "internal server error",
					"trace_id": TraceID(r.Context()),
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
