// Package guard gates rendering of protected pages. Every protected route
// runs the same check on every navigation: resolve the session, compare it
// against the page's required capability, and either pass the session down
// via context or clear state and bounce the visitor to the login entry point.
package guard

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/bsv-th/solar-dashboard/internal/catalog"
	"github.com/bsv-th/solar-dashboard/internal/metrics"
	"github.com/bsv-th/solar-dashboard/internal/session"
)

// Notice values surfaced on the login page after a denial redirect.
const (
	NoticeSessionExpired = "session-expired"
	NoticeAccessDenied   = "access-denied"
	NoticeVerifyFailed   = "verify-failed"
)

type contextKey string

const sessionContextKey contextKey = "session"

// Guard builds route-guarding middleware over a session resolver.
type Guard struct {
	resolver *session.Resolver
	logger   *slog.Logger
}

// New creates a Guard.
func New(resolver *session.Resolver, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{resolver: resolver, logger: logger}
}

// Require returns middleware that admits only sessions whose role is in
// allowed. With no roles given, any authenticated role passes. The resolved
// session is attached to the request context for handlers.
func (g *Guard) Require(allowed ...session.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := g.resolver.Resolve(w, r)
			if sess == nil {
				g.deny(w, r, "no_session", "", false)
				return
			}

			if !roleAllowed(sess.Role, allowed) {
				// An improperly-scoped session is treated as fully
				// invalid for this visit, not merely insufficient.
				g.logger.Warn("role not permitted for page",
					"username", sess.Username, "role", sess.Role, "path", r.URL.Path)
				g.deny(w, r, "role_mismatch", NoticeAccessDenied, true)
				return
			}

			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
		})
	}
}

// RequireDashboard guards /dashboard/{key} routes. The key must belong to the
// station catalog (unknown keys 404 before any backend traffic), and the
// session must be an admin or a user assigned exactly that dashboard.
func (g *Guard) RequireDashboard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		if !catalog.Valid(key) {
			metrics.RecordGuardDenial("unknown_dashboard")
			http.NotFound(w, r)
			return
		}

		sess := g.resolver.Resolve(w, r)
		if sess == nil {
			g.deny(w, r, "no_session", "", false)
			return
		}

		if !sess.IsAdmin() && sess.AssignedDashboard != key {
			g.logger.Warn("dashboard not assigned to user",
				"username", sess.Username, "assigned", sess.AssignedDashboard, "requested", key)
			g.deny(w, r, "dashboard_mismatch", NoticeAccessDenied, true)
			return
		}

		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
	})
}

// deny records the denial, optionally clears the stored session, and
// redirects to the login entry point. The 303 redirect replaces the protected
// page load, so back-navigation does not return to it.
func (g *Guard) deny(w http.ResponseWriter, r *http.Request, reason, notice string, clear bool) {
	metrics.RecordGuardDenial(reason)
	if clear {
		g.resolver.Store().Clear(w)
	}
	RedirectToLogin(w, r, notice)
}

// RedirectToLogin sends the visitor to the login entry point, carrying an
// optional notice for display above the login form.
func RedirectToLogin(w http.ResponseWriter, r *http.Request, notice string) {
	target := "/"
	if notice != "" {
		target = "/?notice=" + url.QueryEscape(notice)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func roleAllowed(role session.Role, allowed []session.Role) bool {
	if len(allowed) == 0 {
		return role.Valid()
	}
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

func withSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// FromContext retrieves the session the guard attached to the request.
// Returns nil when the request did not pass through a guard.
func FromContext(ctx context.Context) *session.Session {
	sess, ok := ctx.Value(sessionContextKey).(*session.Session)
	if !ok {
		return nil
	}
	return sess
}
