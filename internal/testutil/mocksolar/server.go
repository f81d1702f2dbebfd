// Package mocksolar provides an in-memory mock of the solar backend API for
// testing. It issues and verifies real HS256 tokens so the gateway's
// unverified decoding can be exercised against genuinely signed credentials,
// and supports per-path failure injection for the fail-closed paths.
package mocksolar

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bsv-th/solar-dashboard/internal/solarapi"
)

// DefaultTokenTTL is the expiry applied to issued tokens unless a test
// overrides it.
const DefaultTokenTTL = time.Hour

// userRecord is one provisioned account.
type userRecord struct {
	Password  string
	Role      string
	Dashboard string
}

// Server is a mock solar backend API server for testing.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	users      map[string]*userRecord
	stations   map[string]*string // key -> opening date ISO string, nil when unset
	kpiToday   map[string]solarapi.KPI
	kpiByDate  map[string]map[string]solarapi.KPI
	failStatus map[string]int // exact path -> forced status
	requests   map[string]int // exact path -> hit count

	secret   []byte
	tokenTTL time.Duration
}

// New creates a started mock backend with an empty account and station set.
// Call Close when done.
func New() *Server {
	s := &Server{
		users:      make(map[string]*userRecord),
		stations:   make(map[string]*string),
		kpiToday:   make(map[string]solarapi.KPI),
		kpiByDate:  make(map[string]map[string]solarapi.KPI),
		failStatus: make(map[string]int),
		requests:   make(map[string]int),
		secret:     []byte("mocksolar-signing-key"),
		tokenTTL:   DefaultTokenTTL,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", s.handleLogin)
	mux.HandleFunc("/api/auth/list-users", s.handleListUsers)
	mux.HandleFunc("/api/auth/create-user", s.handleCreateUser)
	mux.HandleFunc("/api/auth/delete-user/", s.handleDeleteUser)
	mux.HandleFunc("/api/stations", s.handleStations)
	mux.HandleFunc("/api/stations/", s.handleSetOpeningDate)
	mux.HandleFunc("/api/kpi/", s.handleKPI)
	mux.HandleFunc("/api/seafdec/kpi/", s.handleSeafdecKPI)

	s.Server = httptest.NewServer(s.instrument(mux))
	return s
}

// instrument counts hits and applies failure injection before routing.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.URL.Path]++
		forced, ok := s.failStatus[r.URL.Path]
		s.mu.Unlock()

		if ok {
			writeJSON(w, forced, map[string]string{"message": "injected failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AddUser provisions an account. Passwords are stored in the clear; the mock
// exists to test the gateway, not password storage.
func (s *Server) AddUser(username, password, role, dashboard string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = &userRecord{Password: password, Role: role, Dashboard: dashboard}
}

// AddStation provisions a station with an optional opening date.
func (s *Server) AddStation(key string, openingDate *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stations[key] = openingDate
}

// SetKPIToday sets the KPI payload served for a source key's today/latest endpoints.
func (s *Server) SetKPIToday(sourceKey string, kpi solarapi.KPI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kpiToday[sourceKey] = kpi
}

// SetKPIByDate sets the KPI payload served for a source key on a given date.
func (s *Server) SetKPIByDate(sourceKey, date string, kpi solarapi.KPI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kpiByDate[sourceKey] == nil {
		s.kpiByDate[sourceKey] = make(map[string]solarapi.KPI)
	}
	s.kpiByDate[sourceKey][date] = kpi
}

// FailWith forces an exact request path to answer with the given status.
func (s *Server) FailWith(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus[path] = status
}

// Requests returns how many times an exact path has been hit.
func (s *Server) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

// IssueToken signs a token the way the real backend would. Negative ttl
// produces an already-expired token.
func (s *Server) IssueToken(username, role, dashboard string, ttl time.Duration) string {
	claims := jwt.MapClaims{
		"username": username,
		"role":     role,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	if dashboard != "" {
		claims["dashboard"] = dashboard
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		panic("mocksolar: failed to sign token: " + err.Error())
	}
	return signed
}

// verifyToken checks signature and expiry the way the real backend does.
// Returns the account claims, or nil when the token is not acceptable.
func (s *Server) verifyToken(r *http.Request) jwt.MapClaims {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return nil
	}

	token, err := jwt.Parse(header[len(prefix):], func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return claims
}
