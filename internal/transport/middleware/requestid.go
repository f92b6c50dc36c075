package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/frahmantamala/bill-tracking/pkg/logger"
)

const traceHeader = "X-Trace-ID"

type traceKey struct{}

// RequestID tags every request with a trace id, honoring one supplied
// by the caller. The id rides the context, the request logger and the
// response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), traceKey{}, traceID)
		ctx = logger.With(ctx, "traceID", traceID)
		w.Header().Set(traceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TraceID returns the trace id for the request, empty outside a request.
func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceKey{}).(string); ok {
		return id
	}
	return ""
}
