package session

import (
	"net/http"
	"time"
)

// Resolver is the single source of truth for the current session. It reads
// the raw token from the Store, decodes it, checks liveness, and either
// returns a Session built from the claims or clears the stored state.
type Resolver struct {
	store *Store
	now   func() time.Time
}

// NewResolver creates a Resolver over the given store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store, now: time.Now}
}

// Resolve returns the live Session for the request, or nil when there is
// none. Whenever the stored token is missing, malformed, expired or carries
// an unrecognized role, the stored session fields are cleared on the response
// before nil is returned - an invalid session never lingers.
//
// Resolve is idempotent: repeated calls with the same valid token return
// equal Sessions and write nothing.
func (rs *Resolver) Resolve(w http.ResponseWriter, r *http.Request) *Session {
	stored := rs.store.Read(r)
	if stored.Token == "" {
		return nil
	}

	claims, err := DecodeToken(stored.Token)
	if err != nil {
		rs.store.Clear(w)
		return nil
	}

	// A token with no expiry claim can never satisfy "exp strictly in the
	// future", so it is treated as expired rather than immortal.
	if claims.ExpiresAt == 0 || claims.ExpiresAt <= rs.now().Unix() {
		rs.store.Clear(w)
		return nil
	}

	if !claims.Role.Valid() {
		rs.store.Clear(w)
		return nil
	}

	// Claims win over the denormalized cookie copies: the username, role and
	// dashboard cookies exist for display convenience and can drift.
	return &Session{
		Token:             stored.Token,
		Username:          claims.Username,
		Role:              claims.Role,
		AssignedDashboard: claims.Dashboard,
	}
}

// Store exposes the underlying cookie store, the only write/clear entry point
// for session state.
func (rs *Resolver) Store() *Store {
	return rs.store
}
