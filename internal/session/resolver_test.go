package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestResolver() *Resolver {
	return NewResolver(NewStore(false))
}

func requestWithToken(token string) *http.Request {
	req := httptest.NewRequest("GET", "/dashboard/B1", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	return req
}

// clearedNames collects the session cookies a response expired.
func clearedNames(rec *httptest.ResponseRecorder) map[string]bool {
	out := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			out[c.Name] = true
		}
	}
	return out
}

func TestResolveNoToken(t *testing.T) {
	rs := newTestResolver()
	rec := httptest.NewRecorder()

	sess := rs.Resolve(rec, httptest.NewRequest("GET", "/", nil))
	if sess != nil {
		t.Fatalf("Resolve() = %+v, want nil", sess)
	}
	// Nothing stored means nothing to clear.
	if len(rec.Result().Cookies()) != 0 {
		t.Error("Resolve() with no token should not write cookies")
	}
}

func TestResolveValidToken(t *testing.T) {
	rs := newTestResolver()
	tok := signToken(t, jwt.MapClaims{
		"username":  "somchai",
		"role":      "user",
		"dashboard": "B1",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})

	rec := httptest.NewRecorder()
	sess := rs.Resolve(rec, requestWithToken(tok))
	if sess == nil {
		t.Fatal("Resolve() = nil, want live session")
	}
	if sess.Username != "somchai" || sess.Role != RoleUser || sess.AssignedDashboard != "B1" {
		t.Errorf("session = %+v", sess)
	}
	if sess.Token != tok {
		t.Error("session should carry the raw token for backend calls")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("valid resolve must be side-effect-free")
	}
}

func TestResolveExpiredTokenClearsStorage(t *testing.T) {
	rs := newTestResolver()
	tok := signToken(t, jwt.MapClaims{
		"username": "somchai", "role": "user", "dashboard": "B1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	rec := httptest.NewRecorder()
	if sess := rs.Resolve(rec, requestWithToken(tok)); sess != nil {
		t.Fatalf("Resolve(expired) = %+v, want nil", sess)
	}
	if !clearedNames(rec)["token"] {
		t.Error("expired token must clear stored session fields")
	}
}

func TestResolveGarbageTokenClearsStorage(t *testing.T) {
	rs := newTestResolver()

	rec := httptest.NewRecorder()
	if sess := rs.Resolve(rec, requestWithToken("garbage")); sess != nil {
		t.Fatalf("Resolve(garbage) = %+v, want nil", sess)
	}
	if !clearedNames(rec)["token"] {
		t.Error("malformed token must clear stored session fields")
	}
}

func TestResolveMissingExpTreatedAsExpired(t *testing.T) {
	rs := newTestResolver()
	tok := signToken(t, jwt.MapClaims{"username": "x", "role": "user", "dashboard": "B1"})

	rec := httptest.NewRecorder()
	if sess := rs.Resolve(rec, requestWithToken(tok)); sess != nil {
		t.Fatalf("Resolve(no exp) = %+v, want nil", sess)
	}
	if !clearedNames(rec)["token"] {
		t.Error("token without exp must clear stored session fields")
	}
}

func TestResolveUnrecognizedRoleFailsClosed(t *testing.T) {
	rs := newTestResolver()
	tok := signToken(t, jwt.MapClaims{
		"username": "x", "role": "superuser", "dashboard": "B1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	rec := httptest.NewRecorder()
	if sess := rs.Resolve(rec, requestWithToken(tok)); sess != nil {
		t.Fatalf("Resolve(unknown role) = %+v, want nil", sess)
	}
	if !clearedNames(rec)["token"] {
		t.Error("unknown role must clear stored session fields")
	}
}

func TestResolveClaimsWinOverCookieCopies(t *testing.T) {
	rs := newTestResolver()
	tok := signToken(t, jwt.MapClaims{
		"username": "real-name", "role": "user", "dashboard": "B1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := requestWithToken(tok)
	// Drifted denormalized copies alongside the token.
	req.AddCookie(&http.Cookie{Name: "username", Value: "stale-name"})
	req.AddCookie(&http.Cookie{Name: "role", Value: "admin"})
	req.AddCookie(&http.Cookie{Name: "dashboard", Value: "C1"})

	rec := httptest.NewRecorder()
	sess := rs.Resolve(rec, req)
	if sess == nil {
		t.Fatal("Resolve() = nil")
	}
	if sess.Username != "real-name" || sess.Role != RoleUser || sess.AssignedDashboard != "B1" {
		t.Errorf("claims must win over cookie copies, got %+v", sess)
	}
}

func TestResolveIdempotent(t *testing.T) {
	rs := newTestResolver()
	tok := signToken(t, jwt.MapClaims{
		"username": "somchai", "role": "user", "dashboard": "B1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	first := rs.Resolve(httptest.NewRecorder(), requestWithToken(tok))
	second := rs.Resolve(httptest.NewRecorder(), requestWithToken(tok))

	if first == nil || second == nil {
		t.Fatal("expected live sessions")
	}
	if *first != *second {
		t.Errorf("repeated Resolve() differs: %+v vs %+v", first, second)
	}
}
