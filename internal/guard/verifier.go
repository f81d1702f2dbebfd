package guard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bsv-th/solar-dashboard/internal/metrics"
	"github.com/bsv-th/solar-dashboard/internal/session"
	"github.com/bsv-th/solar-dashboard/internal/solarapi"
)

const usersContextKey contextKey = "verified-users"

// UserLister is the slice of the backend client the verifier needs.
type UserLister interface {
	ListUsers(ctx context.Context, token string) ([]solarapi.User, error)
}

// Verifier re-confirms a locally-claimed admin role with the backend before
// the admin console renders. A forged or stale token passes local decoding
// but cannot survive this probe. Failure of any kind is fatal for the page
// load: state is cleared and the visitor lands back on the login page.
type Verifier struct {
	client UserLister
	store  *session.Store
	logger *slog.Logger
}

// NewVerifier creates a Verifier.
func NewVerifier(client UserLister, store *session.Store, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{client: client, store: store, logger: logger}
}

// Middleware runs the backend probe for requests that already carry a
// guard-attached session. On success the fetched user list rides along in
// the context so the console handler does not refetch it.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := FromContext(r.Context())
		if sess == nil {
			// Guard ordering bug; never render privileged content without it.
			metrics.RecordGuardDenial("no_session")
			RedirectToLogin(w, r, "")
			return
		}

		users, err := v.client.ListUsers(r.Context(), sess.Token)
		if err != nil {
			v.denyFor(w, r, sess, err)
			return
		}

		metrics.RecordRemoteVerification("ok")
		next.ServeHTTP(w, r.WithContext(withUsers(r.Context(), users)))
	})
}

func (v *Verifier) denyFor(w http.ResponseWriter, r *http.Request, sess *session.Session, err error) {
	var outcome, notice string
	switch {
	case errors.Is(err, solarapi.ErrUnauthorized):
		outcome, notice = "expired", NoticeSessionExpired
	case errors.Is(err, solarapi.ErrForbidden):
		outcome, notice = "denied", NoticeAccessDenied
	default:
		// Network failure, 404, 5xx: not distinguishable from denial with
		// confidence, so fail closed for this load.
		outcome, notice = "failed", NoticeVerifyFailed
	}

	v.logger.Warn("admin verification failed",
		"username", sess.Username, "outcome", outcome, "error", err)
	metrics.RecordRemoteVerification(outcome)
	metrics.RecordGuardDenial("verify_" + outcome)
	v.store.Clear(w)
	RedirectToLogin(w, r, notice)
}

func withUsers(ctx context.Context, users []solarapi.User) context.Context {
	return context.WithValue(ctx, usersContextKey, users)
}

// UsersFromContext returns the user list fetched during verification.
func UsersFromContext(ctx context.Context) []solarapi.User {
	users, ok := ctx.Value(usersContextKey).([]solarapi.User)
	if !ok {
		return nil
	}
	return users
}
