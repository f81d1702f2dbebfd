package metrics

import (
	"net/http"
	"strings"
	"time"
)

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// WriteHeader captures the status code and writes it to the underlying ResponseWriter
func (r *statusRecorder) WriteHeader(code int) {
	if !r.written {
		r.statusCode = code
		r.written = true
		r.ResponseWriter.WriteHeader(code)
	}
}

// Write ensures WriteHeader is called before writing body
func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.written {
		r.statusCode = http.StatusOK
		r.written = true
	}
	return r.ResponseWriter.Write(b)
}

// Middleware returns an HTTP middleware that records Prometheus metrics for each request.
// It tracks request count and duration by method, normalized path and status code.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		startTime := time.Now()

		defer func() {
			duration := time.Since(startTime).Seconds()

			statusCode := recorder.statusCode
			if statusCode == 0 {
				statusCode = http.StatusInternalServerError
			}

			normalizedPath := normalizePath(r.URL.Path)

			statusStr := http.StatusText(statusCode)
			if statusStr == "" {
				statusStr = "UNKNOWN"
			}

			RecordRequest(r.Method, normalizedPath, statusStr)
			RecordRequestDuration(r.Method, normalizedPath, statusStr, duration)

			if err := recover(); err != nil {
				if !recorder.written {
					recorder.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(recorder, r)
	})
}

// normalizePath takes a request path and returns a normalized version for use
// as a metric label, preventing cardinality explosion from per-station and
// per-user paths.
// Examples:
//
//	/dashboard/B1 -> /dashboard/:key
//	/admin/users/alice/delete -> /admin/users/:username/delete
//	/admin/stations/A1/opening-date -> /admin/stations/:key/opening-date
func normalizePath(path string) string {
	if rest, ok := strings.CutPrefix(path, "/dashboard/"); ok && rest != "" {
		return "/dashboard/:key"
	}
	if rest, ok := strings.CutPrefix(path, "/admin/users/"); ok && rest != "" {
		if strings.HasSuffix(rest, "/delete") {
			return "/admin/users/:username/delete"
		}
		return "/admin/users/:username"
	}
	if rest, ok := strings.CutPrefix(path, "/admin/stations/"); ok && rest != "" {
		if strings.HasSuffix(rest, "/opening-date") {
			return "/admin/stations/:key/opening-date"
		}
		return "/admin/stations/:key"
	}
	return path
}
