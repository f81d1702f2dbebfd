package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/bsv-th/solar-dashboard/internal/solarapi"
	"github.com/bsv-th/solar-dashboard/internal/storage"
)

const tokenTTL = 24 * time.Hour

// server is the SQLite-backed stand-in for the remote solar backend. Unlike
// the gateway, it is a trust boundary: passwords are bcrypt-checked and token
// signatures are verified.
type server struct {
	store  storage.Storage
	secret []byte
	logger *slog.Logger
}

func newServer(store storage.Storage, secret []byte, logger *slog.Logger) *server {
	if logger == nil {
		logger = slog.Default()
	}
	return &server{store: store, secret: secret, logger: logger}
}

func (s *server) router() http.Handler {
	r := chi.NewRouter()

	r.Post("/api/auth/login", s.handleLogin)
	r.Get("/api/auth/list-users", s.handleListUsers)
	r.Post("/api/auth/create-user", s.handleCreateUser)
	r.Delete("/api/auth/delete-user/{username}", s.handleDeleteUser)

	r.Get("/api/stations", s.handleStations)
	r.Patch("/api/stations/{key}/opening-date", s.handleSetOpeningDate)

	r.Get("/api/kpi/{sourceKey}/today", s.handleKPIToday)
	r.Get("/api/kpi/{sourceKey}/by-date", s.handleKPIByDate)
	r.Get("/api/seafdec/kpi/latest", s.handleSeafdecLatest)
	r.Get("/api/seafdec/kpi/{date}", s.handleSeafdecByDate)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req solarapi.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}

	user, err := s.store.GetUser(r.Context(), req.Username)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error("user lookup failed", "error", err)
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid username or password"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid username or password"})
		return
	}

	// Non-admin accounts may only log into their assigned dashboard.
	if user.Role != "admin" && req.ExpectedDashboard != "" && req.ExpectedDashboard != user.Dashboard {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Selected dashboard does not match your account"})
		return
	}

	token, err := s.issueToken(user)
	if err != nil {
		s.logger.Error("token signing failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, solarapi.LoginResponse{
		Token:     token,
		Role:      user.Role,
		Dashboard: user.Dashboard,
	})
}

func (s *server) issueToken(user *storage.User) (string, error) {
	claims := jwt.MapClaims{
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}
	if user.Dashboard != "" {
		claims["dashboard"] = user.Dashboard
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// requireAdmin verifies the bearer token signature and expiry, then checks
// the account record still carries the admin role. Returns nil after writing
// the error response when the request is not acceptable.
func (s *server) requireAdmin(w http.ResponseWriter, r *http.Request) *storage.User {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid or expired token"})
		return nil
	}

	token, err := jwt.Parse(header[len(prefix):], func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid or expired token"})
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid or expired token"})
		return nil
	}

	username, _ := claims["username"].(string)
	user, err := s.store.GetUser(r.Context(), username)
	if err != nil || user.Role != "admin" {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "administrator privileges required"})
		return nil
	}
	return user
}

func (s *server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}

	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.internalError(w, "list users", err)
		return
	}

	resp := make([]solarapi.User, 0, len(users))
	for _, u := range users {
		resp = append(resp, solarapi.User{Username: u.Username, AssignedDashboard: u.Dashboard})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	admin := s.requireAdmin(w, r)
	if admin == nil {
		return
	}

	var req solarapi.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "username and password are required"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.internalError(w, "hash password", err)
		return
	}

	if _, err := s.store.CreateUser(r.Context(), req.Username, string(hash), "user", req.AssignedDashboard); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "user already exists"})
			return
		}
		s.internalError(w, "create user", err)
		return
	}

	s.logger.Info("user created", "username", req.Username, "by", admin.Username)
	writeJSON(w, http.StatusOK, solarapi.MessageResponse{Message: "User created successfully"})
}

func (s *server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	admin := s.requireAdmin(w, r)
	if admin == nil {
		return
	}

	username := chi.URLParam(r, "username")
	if err := s.store.DeleteUser(r.Context(), username); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "user not found"})
			return
		}
		s.internalError(w, "delete user", err)
		return
	}

	s.logger.Info("user deleted", "username", username, "by", admin.Username)
	writeJSON(w, http.StatusOK, solarapi.MessageResponse{Message: "User deleted successfully"})
}

func (s *server) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := s.store.ListStations(r.Context())
	if err != nil {
		s.internalError(w, "list stations", err)
		return
	}

	resp := make([]solarapi.Station, 0, len(stations))
	for _, st := range stations {
		resp = append(resp, solarapi.Station{Key: st.Key, OpeningDate: st.OpeningDate})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleSetOpeningDate(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}

	key := chi.URLParam(r, "key")
	if _, err := s.store.GetStation(r.Context(), key); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "station not found"})
			return
		}
		s.internalError(w, "get station", err)
		return
	}

	var req solarapi.SetOpeningDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}
	if req.OpeningDate != nil {
		if _, err := time.Parse("2006-01-02", *req.OpeningDate); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "openingDate must be YYYY-MM-DD"})
			return
		}
	}

	if err := s.store.UpsertStation(r.Context(), key, req.OpeningDate); err != nil {
		s.internalError(w, "update station", err)
		return
	}
	writeJSON(w, http.StatusOK, solarapi.MessageResponse{Message: "opening date updated"})
}

func (s *server) handleKPIToday(w http.ResponseWriter, r *http.Request) {
	s.writeLatestKPI(r.Context(), w, chi.URLParam(r, "sourceKey"))
}

func (s *server) handleKPIByDate(w http.ResponseWriter, r *http.Request) {
	s.writeKPIForDate(r.Context(), w, chi.URLParam(r, "sourceKey"), r.URL.Query().Get("date"))
}

func (s *server) handleSeafdecLatest(w http.ResponseWriter, r *http.Request) {
	s.writeLatestKPI(r.Context(), w, "seafdec")
}

func (s *server) handleSeafdecByDate(w http.ResponseWriter, r *http.Request) {
	s.writeKPIForDate(r.Context(), w, "seafdec", chi.URLParam(r, "date"))
}

func (s *server) writeLatestKPI(ctx context.Context, w http.ResponseWriter, sourceKey string) {
	row, err := s.store.LatestKPI(ctx, sourceKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "no data for source"})
			return
		}
		s.internalError(w, "latest kpi", err)
		return
	}
	writeJSON(w, http.StatusOK, kpiResponse(row))
}

func (s *server) writeKPIForDate(ctx context.Context, w http.ResponseWriter, sourceKey, date string) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "date must be YYYY-MM-DD"})
		return
	}

	row, err := s.store.GetKPI(ctx, sourceKey, date)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "no data for date"})
			return
		}
		s.internalError(w, "kpi by date", err)
		return
	}
	writeJSON(w, http.StatusOK, kpiResponse(row))
}

func kpiResponse(row *storage.KPIRow) solarapi.KPI {
	return solarapi.KPI{
		Date:            row.Date,
		DayPower:        row.DayPower,
		MonthPower:      row.MonthPower,
		TotalPower:      row.TotalPower,
		DayIncome:       row.DayIncome,
		TotalIncome:     row.TotalIncome,
		EquivalentTrees: row.EquivalentTrees,
		CO2Avoided:      row.CO2Avoided,
		DayUseEnergy:    row.DayUseEnergy,
		DayOnGridEnergy: row.DayOnGridEnergy,
	}
}

func (s *server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error("request failed", "op", op, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // Response write errors are unrecoverable
	json.NewEncoder(w).Encode(payload)
}
