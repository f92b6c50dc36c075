package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/bill-tracking/pkg/logger"
)

// headers that must never appear in logs
var sensitiveHeaders = []string{
	"authorization",
	"cookie",
	"token",
	"secret",
	"api_key",
}

// Logging logs every request and its outcome through the request-scoped
// logger, so entries carry the trace id. Bodies are not captured:
// receipt uploads are binary multipart payloads.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(ww, r)

		statusCode := ww.statusCode
		if statusCode == 0 {
			statusCode = http.StatusOK
		}

		logLevel := slog.LevelInfo
		if statusCode >= 500 {
			logLevel = slog.LevelError
		} else if statusCode >= 400 {
			logLevel = slog.LevelWarn
		}

		logger.From(r.Context()).Log(r.Context(), logLevel, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status_code", statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
			"headers", filterSensitiveHeaders(r.Header),
		)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.statusCode = code
	sw.ResponseWriter.WriteHeader(code)
}

// filterSensitiveHeaders removes or masks sensitive headers
func filterSensitiveHeaders(headers http.Header) map[string]string {
	filtered := make(map[string]string)

	for name, values := range headers {
		lowerName := strings.ToLower(name)

		isSensitive := false
		for _, sensitive := range sensitiveHeaders {
			if strings.Contains(lowerName, sensitive) {
				isSensitive = true
				break
			}
		}

		if isSensitive {
			filtered[name] = "[FILTERED]"
		} else {
			filtered[name] = strings.Join(values, ", ")
		}
	}

	return filtered
}
