package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestMetricsMiddleware verifies that the middleware records request metrics
func TestMetricsMiddleware(t *testing.T) {
	t.Parallel()

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	handler := Middleware(testHandler)

	req := httptest.NewRequest("GET", "/dashboard/B1", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

// TestMetricsMiddlewarePanicRecovery verifies a panicking handler still
// produces a response
func TestMetricsMiddlewarePanicRecovery(t *testing.T) {
	t.Parallel()

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	handler := Middleware(testHandler)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500 after panic, got %d", w.Code)
	}
}

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"/dashboard/B1", "/dashboard/:key"},
		{"/dashboard/seafdec", "/dashboard/:key"},
		{"/dashboard/", "/dashboard/"},
		{"/admin/users/alice/delete", "/admin/users/:username/delete"},
		{"/admin/stations/A1/opening-date", "/admin/stations/:key/opening-date"},
		{"/admin", "/admin"},
		{"/", "/"},
		{"/login", "/login"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
