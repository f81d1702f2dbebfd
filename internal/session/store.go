package session

import (
	"net/http"
)

// Cookie names. One cookie per field, mirroring the per-key layout the
// backend's other clients use for this site's persisted state.
const (
	cookieToken             = "token"
	cookieUsername          = "username"
	cookieRole              = "role"
	cookieDashboard         = "dashboard"
	cookieSelectedDashboard = "selectedDashboard"
	cookieLang              = "lang"
)

// sessionCookieMaxAge keeps session cookies across browser restarts.
// The token's own expiry claim is what actually bounds the session lifetime.
const sessionCookieMaxAge = 30 * 24 * 60 * 60

// Store persists session fields as individual per-origin cookies.
//
// There is no atomicity across fields: a response that sets only some of the
// cookies leaves a partial session behind, which the Resolver treats as
// invalid. Clear is idempotent. The lang cookie is independent of the session
// and survives Clear.
type Store struct {
	secure bool
}

// NewStore creates a cookie store. secure marks cookies Secure and should be
// set whenever the gateway is served over TLS.
func NewStore(secure bool) *Store {
	return &Store{secure: secure}
}

// Stored is whatever subset of session fields the request carried.
// Absent fields are empty strings.
type Stored struct {
	Token     string
	Username  string
	Role      string
	Dashboard string
}

// Write stores the session as four cookies on the response.
func (s *Store) Write(w http.ResponseWriter, sess *Session) {
	s.set(w, cookieToken, sess.Token, sessionCookieMaxAge)
	s.set(w, cookieUsername, sess.Username, sessionCookieMaxAge)
	s.set(w, cookieRole, string(sess.Role), sessionCookieMaxAge)
	s.set(w, cookieDashboard, sess.AssignedDashboard, sessionCookieMaxAge)
}

// Read returns the session fields present on the request.
func (s *Store) Read(r *http.Request) Stored {
	return Stored{
		Token:     cookieValue(r, cookieToken),
		Username:  cookieValue(r, cookieUsername),
		Role:      cookieValue(r, cookieRole),
		Dashboard: cookieValue(r, cookieDashboard),
	}
}

// Clear removes every session field and the pending dashboard selection.
// Calling it repeatedly just re-expires the same cookies.
func (s *Store) Clear(w http.ResponseWriter) {
	s.set(w, cookieToken, "", -1)
	s.set(w, cookieUsername, "", -1)
	s.set(w, cookieRole, "", -1)
	s.set(w, cookieDashboard, "", -1)
	s.set(w, cookieSelectedDashboard, "", -1)
}

// SelectedDashboard returns the pre-login dashboard pick, if any.
func (s *Store) SelectedDashboard(r *http.Request) string {
	return cookieValue(r, cookieSelectedDashboard)
}

// WriteSelectedDashboard records which dashboard the visitor is about to log
// into. Consumed once by the login handler.
func (s *Store) WriteSelectedDashboard(w http.ResponseWriter, key string) {
	s.set(w, cookieSelectedDashboard, key, sessionCookieMaxAge)
}

// ClearSelectedDashboard drops the pending pick.
func (s *Store) ClearSelectedDashboard(w http.ResponseWriter) {
	s.set(w, cookieSelectedDashboard, "", -1)
}

// Lang returns the visitor's UI language preference ("th" or "en"), or empty.
func (s *Store) Lang(r *http.Request) string {
	return cookieValue(r, cookieLang)
}

// WriteLang stores the UI language preference. Independent of the session.
func (s *Store) WriteLang(w http.ResponseWriter, lang string) {
	s.set(w, cookieLang, lang, sessionCookieMaxAge)
}

func (s *Store) set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
