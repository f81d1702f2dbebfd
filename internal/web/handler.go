// Package web serves the gateway's pages: the login/picker entry point, the
// admin console, and the per-station dashboards. Handlers never talk to the
// backend before the guard has admitted the request.
package web

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bsv-th/solar-dashboard/internal/catalog"
	"github.com/bsv-th/solar-dashboard/internal/guard"
	"github.com/bsv-th/solar-dashboard/internal/poller"
	"github.com/bsv-th/solar-dashboard/internal/session"
	"github.com/bsv-th/solar-dashboard/internal/solarapi"
)

// BackendClient defines the backend operations the page handlers need.
type BackendClient interface {
	Login(ctx context.Context, req *solarapi.LoginRequest) (*solarapi.LoginResponse, error)
	ListUsers(ctx context.Context, token string) ([]solarapi.User, error)
	CreateUser(ctx context.Context, token string, req *solarapi.CreateUserRequest) (*solarapi.MessageResponse, error)
	DeleteUser(ctx context.Context, token, username string) error
	ListStations(ctx context.Context) ([]solarapi.Station, error)
	SetOpeningDate(ctx context.Context, token, stationKey string, openingDate *string) error
	KPIByDate(ctx context.Context, sourceKey, date string) (*solarapi.KPI, error)
	SeafdecByDate(ctx context.Context, date string) (*solarapi.KPI, error)
}

// SnapshotSource provides the latest polled KPI per station.
type SnapshotSource interface {
	Snapshot(key string) (poller.Snapshot, bool)
}

// Handler renders the gateway pages.
type Handler struct {
	client    BackendClient
	store     *session.Store
	snapshots SnapshotSource
	logger    *slog.Logger
	templates *template.Template
}

// NewHandler creates a page handler. If logger is nil, slog.Default() is used.
func NewHandler(client BackendClient, store *session.Store, snapshots SnapshotSource, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		client:    client,
		store:     store,
		snapshots: snapshots,
		logger:    logger,
		templates: parseTemplates(),
	}
}

// page carries the fields every template shares.
type page struct {
	Lang     string
	T        map[string]string
	Username string
}

func (h *Handler) newPage(r *http.Request, sess *session.Session) page {
	lang := h.store.Lang(r)
	if !validLang(lang) {
		lang = defaultLang
	}
	p := page{Lang: lang, T: textsFor(lang)}
	if sess != nil {
		p.Username = sess.Username
	}
	return p
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("template render failed", "template", name, "error", err)
	}
}

type loginPage struct {
	page
	Notice   string
	Error    string
	Selected string
	Stations []catalog.Station
}

// HandleIndex renders the login page with the station picker.
// GET /
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, "")
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, loginErr string) {
	p := h.newPage(r, nil)

	selected := h.store.SelectedDashboard(r)
	if !catalog.Valid(selected) {
		selected = catalog.All()[0].Key
	}

	var notice string
	if key := r.URL.Query().Get("notice"); key != "" {
		// Unknown notice keys render nothing rather than echoing input.
		notice = p.T["notice-"+key]
	}

	h.render(w, "login.html", loginPage{
		page:     p,
		Notice:   notice,
		Error:    loginErr,
		Selected: selected,
		Stations: catalog.All(),
	})
}

// HandleSelect stores the picked dashboard and returns to the login page.
// POST /select
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	key := r.PostFormValue("dashboard")
	if catalog.Valid(key) {
		h.store.WriteSelectedDashboard(w, key)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogin authenticates against the backend and establishes the session.
// POST /login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	expected := r.PostFormValue("dashboard")
	if expected == "" {
		expected = h.store.SelectedDashboard(r)
	}
	if !catalog.Valid(expected) {
		expected = ""
	}

	p := h.newPage(r, nil)
	if username == "" || password == "" {
		h.renderLogin(w, r, p.T["username"]+" / "+p.T["password"])
		return
	}

	resp, err := h.client.Login(r.Context(), &solarapi.LoginRequest{
		Username:          username,
		Password:          password,
		ExpectedDashboard: expected,
	})
	if err != nil {
		var apiErr *solarapi.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			h.renderLogin(w, r, apiErr.Message)
			return
		}
		h.logger.Error("login request failed", "username", username, "error", err)
		h.renderLogin(w, r, p.T["notice-verify-failed"])
		return
	}

	sess := &session.Session{
		Token:             resp.Token,
		Username:          username,
		Role:              session.Role(resp.Role),
		AssignedDashboard: resp.Dashboard,
	}
	if !sess.Role.Valid() {
		h.logger.Warn("backend returned unrecognized role", "username", username, "role", resp.Role)
		h.renderLogin(w, r, p.T["notice-verify-failed"])
		return
	}

	h.store.Write(w, sess)
	h.logger.Info("login succeeded", "username", username, "role", resp.Role)

	if sess.IsAdmin() {
		// Admins start at the console and pick stations from there.
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard/"+url.PathEscape(sess.AssignedDashboard), http.StatusSeeOther)
}

// HandleLogout clears the session and returns to the login page.
// POST /logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.store.Clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLang switches the display language and returns to the calling page.
// GET /lang?set=th|en
func (h *Handler) HandleLang(w http.ResponseWriter, r *http.Request) {
	if lang := r.URL.Query().Get("set"); validLang(lang) {
		h.store.WriteLang(w, lang)
	}

	back := "/"
	if ref := r.Header.Get("Referer"); ref != "" {
		// Stay on this origin regardless of the Referer host. "//" and "/\"
		// prefixes are scheme-relative URLs to browsers, not local paths.
		if u, err := url.Parse(ref); err == nil && isLocalPath(u.Path) {
			back = u.Path
			if u.RawQuery != "" {
				back += "?" + u.RawQuery
			}
		}
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") &&
		!strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}

type dashboardPage struct {
	page
	Station   catalog.Station
	IsAdmin   bool
	KPI       *solarapi.KPI
	FetchedAt string
	Date      string
}

// HandleDashboard renders a station dashboard from the latest polled
// snapshot, or fetches a specific date on demand.
// GET /dashboard/{key}?date=2006-01-02
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := guard.FromContext(r.Context())
	key := chi.URLParam(r, "key")
	station, ok := catalog.Lookup(key)
	if !ok {
		// The guard already rejects unknown keys; direct handler use would
		// be a wiring bug.
		http.NotFound(w, r)
		return
	}

	data := dashboardPage{
		page:    h.newPage(r, sess),
		Station: station,
		IsAdmin: sess.IsAdmin(),
	}

	if date := r.URL.Query().Get("date"); date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			http.Redirect(w, r, "/dashboard/"+station.Key, http.StatusSeeOther)
			return
		}
		data.Date = date
		data.KPI = h.fetchByDate(r.Context(), station, date)
		h.render(w, "dashboard.html", data)
		return
	}

	if snap, ok := h.snapshots.Snapshot(station.Key); ok && snap.KPI != nil {
		data.KPI = snap.KPI
		data.FetchedAt = snap.FetchedAt.Format("2006-01-02 15:04")
	}
	h.render(w, "dashboard.html", data)
}

func (h *Handler) fetchByDate(ctx context.Context, station catalog.Station, date string) *solarapi.KPI {
	var kpi *solarapi.KPI
	var err error
	if station.PollSeafdecEndpoints {
		kpi, err = h.client.SeafdecByDate(ctx, date)
	} else {
		kpi, err = h.client.KPIByDate(ctx, station.SourceKey, date)
	}
	if err != nil {
		if !errors.Is(err, solarapi.ErrNotFound) {
			h.logger.Warn("by-date kpi fetch failed", "station", station.Key, "date", date, "error", err)
		}
		return nil
	}
	return kpi
}
