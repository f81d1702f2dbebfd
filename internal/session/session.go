// Package session derives the authoritative login session from browser-held
// state. It owns the cookie-backed token store, the unverified token decoder
// and the resolver that reconciles the two, so that every protected page
// shares one implementation of "who is currently using this client".
package session

import "errors"

// Role is the authorization role carried in a token's claims.
type Role string

const (
	// RoleAdmin may open the admin console and every dashboard.
	RoleAdmin Role = "admin"
	// RoleUser may open only the dashboard named in its assignment.
	RoleUser Role = "user"
)

// Valid reports whether the role is one of the recognized enum values.
// Anything else is treated as no session at all (fail closed).
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Claims is the decoded payload of a bearer token. Immutable once decoded.
type Claims struct {
	Username  string
	Role      Role
	Dashboard string // assigned dashboard key, empty for admins
	ExpiresAt int64  // Unix seconds; zero when the token carries no expiry
}

// Session is the resolved, authoritative view of the current visitor.
// A nil *Session means "no session".
type Session struct {
	Token             string
	Username          string
	Role              Role
	AssignedDashboard string
}

// IsAdmin reports whether the session carries the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// ErrMalformedToken indicates a token that does not parse into the expected
// three-segment shape, or whose payload is not valid claims data.
var ErrMalformedToken = errors.New("session: malformed token")
