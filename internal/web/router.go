package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bsv-th/solar-dashboard/internal/guard"
	"github.com/bsv-th/solar-dashboard/internal/metrics"
	"github.com/bsv-th/solar-dashboard/internal/middleware"
	"github.com/bsv-th/solar-dashboard/internal/session"
)

// maxFormBytes caps request bodies; pages only ever submit small forms.
const maxFormBytes = 64 * 1024

// NewRouter assembles the gateway's routes with their guards.
// The verifier runs only on admin routes; dashboard routes rely on local
// session resolution alone.
func NewRouter(handler *Handler, g *guard.Guard, verifier *guard.Verifier, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(metrics.Middleware)
	r.Use(middleware.HTTPLogging(logger))
	r.Use(middleware.MaxBodySize(maxFormBytes))

	r.Get("/health", handler.HandleHealth)
	r.Get("/ready", handler.HandleReady)

	r.Get("/", handler.HandleIndex)
	r.Post("/select", handler.HandleSelect)
	r.Post("/login", handler.HandleLogin)
	r.Post("/logout", handler.HandleLogout)
	r.Get("/lang", handler.HandleLang)

	r.Route("/admin", func(r chi.Router) {
		r.Use(g.Require(session.RoleAdmin))
		r.Use(verifier.Middleware)
		r.Get("/", handler.HandleAdmin)
		r.Post("/users", handler.HandleCreateUser)
		r.Post("/users/{username}/delete", handler.HandleDeleteUser)
		r.Post("/stations/{key}/opening-date", handler.HandleSetOpeningDate)
	})

	r.Route("/dashboard/{key}", func(r chi.Router) {
		r.Use(g.RequireDashboard)
		r.Get("/", handler.HandleDashboard)
	})

	return r
}
