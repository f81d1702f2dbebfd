package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bsv-th/solar-dashboard/internal/logging"
)

// HTTPLogging creates a middleware that logs HTTP requests and responses.
// Request and response lines are emitted only at DEBUG level; header values
// are masked before they reach the log so session cookies and bearer tokens
// never appear in plaintext.
func HTTPLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !logger.Enabled(r.Context(), slog.LevelDebug) {
				next.ServeHTTP(w, r)
				return
			}

			requestID := GetRequestID(r.Context())

			logger.Debug("HTTP Request",
				"request_id", requestID,
				"method", r.Method,
				"url", r.URL.Path,
				"query_params", r.URL.RawQuery,
				"headers", maskHeaders(r.Header),
			)

			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			start := time.Now()
			next.ServeHTTP(rec, r)
			duration := time.Since(start)

			logger.Debug("HTTP Response",
				"request_id", requestID,
				"method", r.Method,
				"url", r.URL.Path,
				"status_code", rec.statusCode,
				"headers", maskHeaders(rec.Header()),
				"duration_ms", duration.Milliseconds(),
			)
		})
	}
}

// maskHeaders masks sensitive header values
func maskHeaders(headers http.Header) map[string]string {
	result := make(map[string]string)
	for k, v := range headers {
		if len(v) > 0 {
			result[k] = logging.MaskHeader(k, v[0])
		}
	}
	return result
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.written {
		r.statusCode = code
		r.written = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.written {
		r.statusCode = http.StatusOK
		r.written = true
	}
	return r.ResponseWriter.Write(b)
}
