package web

import (
	"encoding/json"
	"net/http"

	"github.com/bsv-th/solar-dashboard/internal/catalog"
)

// HandleHealth returns basic liveness status.
// GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Response write errors are unrecoverable
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// HandleReady reports whether at least one station snapshot has been fetched.
// The gateway can serve login pages before that, so readiness only reflects
// dashboard data availability.
// GET /ready
func (h *Handler) HandleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ready := false
	for _, st := range catalog.All() {
		if snap, ok := h.snapshots.Snapshot(st.Key); ok && snap.KPI != nil {
			ready = true
			break
		}
	}

	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
		//nolint:errcheck // Response write errors are unrecoverable
		json.NewEncoder(w).Encode(map[string]string{"status": "waiting", "kpi": "no data yet"})
		return
	}

	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Response write errors are unrecoverable
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "kpi": "available"})
}
