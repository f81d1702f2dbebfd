package mocksolar

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bsv-th/solar-dashboard/internal/solarapi"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "method not allowed"})
		return
	}

	var req solarapi.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	s.mu.Lock()
	user, ok := s.users[req.Username]
	s.mu.Unlock()

	if !ok || user.Password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid username or password"})
		return
	}

	// Non-admin accounts may only log into their assigned dashboard.
	if user.Role != "admin" && req.ExpectedDashboard != "" && req.ExpectedDashboard != user.Dashboard {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Selected dashboard does not match your account"})
		return
	}

	token := s.IssueToken(req.Username, user.Role, user.Dashboard, s.tokenTTL)
	writeJSON(w, http.StatusOK, solarapi.LoginResponse{
		Token:     token,
		Role:      user.Role,
		Dashboard: user.Dashboard,
	})
}

// requireAdmin verifies the bearer token and confirms the account record
// still carries the admin role. The record is authoritative: a signed token
// whose claims say admin for a non-admin account is refused. Writes the
// error response and returns nil on failure.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) jwt.MapClaims {
	claims := s.verifyToken(r)
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid or expired token"})
		return nil
	}

	username, _ := claims["username"].(string)
	s.mu.Lock()
	rec, ok := s.users[username]
	s.mu.Unlock()

	if claims["role"] != "admin" || !ok || rec.Role != "admin" {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "administrator privileges required"})
		return nil
	}
	return claims
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}

	s.mu.Lock()
	users := make([]solarapi.User, 0, len(s.users))
	for name, rec := range s.users {
		users = append(users, solarapi.User{Username: name, AssignedDashboard: rec.Dashboard})
	}
	s.mu.Unlock()

	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}

	var req solarapi.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "username and password are required"})
		return
	}

	s.mu.Lock()
	_, exists := s.users[req.Username]
	if !exists {
		s.users[req.Username] = &userRecord{Password: req.Password, Role: "user", Dashboard: req.AssignedDashboard}
	}
	s.mu.Unlock()

	if exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "user already exists"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User created successfully"})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "method not allowed"})
		return
	}

	if s.requireAdmin(w, r) == nil {
		return
	}

	username := strings.TrimPrefix(r.URL.Path, "/api/auth/delete-user/")

	s.mu.Lock()
	_, exists := s.users[username]
	delete(s.users, username)
	s.mu.Unlock()

	if !exists {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "user not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stations := make([]solarapi.Station, 0, len(s.stations))
	for key, opening := range s.stations {
		stations = append(stations, solarapi.Station{Key: key, OpeningDate: opening})
	}
	s.mu.Unlock()

	sort.Slice(stations, func(i, j int) bool { return stations[i].Key < stations[j].Key })
	writeJSON(w, http.StatusOK, stations)
}

func (s *Server) handleSetOpeningDate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "method not allowed"})
		return
	}

	if s.requireAdmin(w, r) == nil {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/stations/")
	key, okSuffix := strings.CutSuffix(rest, "/opening-date")
	if !okSuffix || key == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
		return
	}

	var req solarapi.SetOpeningDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	s.mu.Lock()
	_, exists := s.stations[key]
	if exists {
		s.stations[key] = req.OpeningDate
	}
	s.mu.Unlock()

	if !exists {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "station not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "opening date updated"})
}

// handleKPI serves /api/kpi/{sourceKey}/today and /api/kpi/{sourceKey}/by-date?date=...
func (s *Server) handleKPI(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/kpi/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
		return
	}
	sourceKey, op := parts[0], parts[1]

	switch op {
	case "today":
		s.mu.Lock()
		kpi, ok := s.kpiToday[sourceKey]
		s.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "no data for source"})
			return
		}
		if kpi.Date == "" {
			kpi.Date = time.Now().Format("2006-01-02")
		}
		writeJSON(w, http.StatusOK, kpi)
	case "by-date":
		date := r.URL.Query().Get("date")
		s.mu.Lock()
		kpi, ok := s.kpiByDate[sourceKey][date]
		s.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "no data for date"})
			return
		}
		kpi.Date = date
		writeJSON(w, http.StatusOK, kpi)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	}
}

// handleSeafdecKPI serves the legacy /api/seafdec/kpi/latest and
// /api/seafdec/kpi/{date} endpoints backed by the "seafdec" source key.
func (s *Server) handleSeafdecKPI(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/seafdec/kpi/")

	if rest == "latest" {
		s.mu.Lock()
		kpi, ok := s.kpiToday["seafdec"]
		s.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "no data"})
			return
		}
		writeJSON(w, http.StatusOK, kpi)
		return
	}

	s.mu.Lock()
	kpi, ok := s.kpiByDate["seafdec"][rest]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no data for date"})
		return
	}
	kpi.Date = rest
	writeJSON(w, http.StatusOK, kpi)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Encoding errors are not recoverable mid-response
		_ = err
	}
}
