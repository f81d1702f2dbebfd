package web

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bsv-th/solar-dashboard/internal/catalog"
	"github.com/bsv-th/solar-dashboard/internal/guard"
	"github.com/bsv-th/solar-dashboard/internal/solarapi"
)

type adminPage struct {
	page
	Users    []solarapi.User
	Stations []solarapi.Station
	Catalog  []catalog.Station
	Flash    string
	Error    string
}

// HandleAdmin renders the admin console. The remote verifier has already
// fetched the user list and attached it to the context.
// GET /admin
func (h *Handler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	sess := guard.FromContext(r.Context())
	p := h.newPage(r, sess)

	stations, err := h.client.ListStations(r.Context())
	if err != nil {
		// The console is still usable for user management without the
		// station list.
		h.logger.Warn("station list fetch failed", "error", err)
	}

	data := adminPage{
		page:     p,
		Users:    guard.UsersFromContext(r.Context()),
		Stations: stations,
		Catalog:  catalog.All(),
		Error:    r.URL.Query().Get("err"),
	}
	if key := r.URL.Query().Get("flash"); key != "" {
		data.Flash = p.T["flash-"+key]
	}
	h.render(w, "admin.html", data)
}

// HandleCreateUser provisions a new account through the backend.
// POST /admin/users
func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	sess := guard.FromContext(r.Context())

	req := &solarapi.CreateUserRequest{
		Username:          r.PostFormValue("username"),
		Password:          r.PostFormValue("password"),
		AssignedDashboard: r.PostFormValue("assignedDashboard"),
	}
	if req.Username == "" || req.Password == "" || !catalog.Valid(req.AssignedDashboard) {
		h.redirectAdmin(w, r, "", "username and password are required")
		return
	}

	if _, err := h.client.CreateUser(r.Context(), sess.Token, req); err != nil {
		h.adminError(w, r, err)
		return
	}
	h.logger.Info("user created", "username", req.Username, "dashboard", req.AssignedDashboard, "by", sess.Username)
	h.redirectAdmin(w, r, "user-created", "")
}

// HandleDeleteUser removes an account through the backend.
// POST /admin/users/{username}/delete
func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	sess := guard.FromContext(r.Context())
	username := chi.URLParam(r, "username")

	if err := h.client.DeleteUser(r.Context(), sess.Token, username); err != nil {
		h.adminError(w, r, err)
		return
	}
	h.logger.Info("user deleted", "username", username, "by", sess.Username)
	h.redirectAdmin(w, r, "user-deleted", "")
}

// HandleSetOpeningDate updates or clears a station's opening date.
// POST /admin/stations/{key}/opening-date
func (h *Handler) HandleSetOpeningDate(w http.ResponseWriter, r *http.Request) {
	sess := guard.FromContext(r.Context())
	key := chi.URLParam(r, "key")

	var opening *string
	if v := r.PostFormValue("openingDate"); v != "" {
		if _, err := time.Parse("2006-01-02", v); err != nil {
			h.redirectAdmin(w, r, "", "invalid date")
			return
		}
		opening = &v
	}

	if err := h.client.SetOpeningDate(r.Context(), sess.Token, key, opening); err != nil {
		h.adminError(w, r, err)
		return
	}
	h.logger.Info("opening date updated", "station", key, "by", sess.Username)
	h.redirectAdmin(w, r, "date-saved", "")
}

// adminError maps a backend failure on an admin action. An expired or
// revoked token ends the session; anything else surfaces on the console.
func (h *Handler) adminError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, solarapi.ErrUnauthorized) {
		h.store.Clear(w)
		guard.RedirectToLogin(w, r, guard.NoticeSessionExpired)
		return
	}
	if errors.Is(err, solarapi.ErrForbidden) {
		h.store.Clear(w)
		guard.RedirectToLogin(w, r, guard.NoticeAccessDenied)
		return
	}

	h.logger.Warn("admin action failed", "error", err)
	msg := "request failed"
	var apiErr *solarapi.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	h.redirectAdmin(w, r, "", msg)
}

func (h *Handler) redirectAdmin(w http.ResponseWriter, r *http.Request, flash, errMsg string) {
	target := "/admin"
	if flash != "" {
		target += "?flash=" + url.QueryEscape(flash)
	} else if errMsg != "" {
		target += "?err=" + url.QueryEscape(errMsg)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
