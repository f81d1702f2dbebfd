package middleware

import "net/http"

// MaxBodySize returns middleware that limits request body size.
// Requests exceeding maxBytes receive a 413 Request Entity Too Large response
// when the handler attempts to read beyond the limit. The gateway only ever
// accepts small login and admin forms, so the limit is tight.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
