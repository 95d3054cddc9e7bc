// internal/api/handler/admin.go
package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"wealthpath-admin/internal/api/types"
	"wealthpath-admin/internal/domain"
	"wealthpath-admin/internal/service"
	"wealthpath-admin/internal/util" // For custom errors
)

// DefaultTimeout bounds every request, dashboard queries included.
const DefaultTimeout = 30 * time.Second

// AdminHandler serves the admin console pages and its JSON API.
type AdminHandler struct {
	service  service.AdminService
	renderer *Renderer
	logger   *slog.Logger
	pageSize int
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(svc service.AdminService, renderer *Renderer, logger *slog.Logger, pageSize int) *AdminHandler {
	return &AdminHandler{
		service:  svc,
		renderer: renderer,
		logger:   logger,
		pageSize: pageSize,
	}
}

type pageMeta struct {
	Title string
	Flash *Flash
}

type activityBar struct {
	Day     time.Time
	Count   int64
	Percent int
}

type dashboardPage struct {
	pageMeta
	Dashboard *service.Dashboard
	Activity  []activityBar
}

type usersPage struct {
	pageMeta
	Search string
	Users  types.PaginatedResponse[domain.User]
}

type userDetailPage struct {
	pageMeta
	User         *domain.User
	Transactions types.PaginatedResponse[domain.Transaction]
}

type errorPage struct {
	pageMeta
	Message string
}

// Helper function to send JSON responses.
func (h *AdminHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses.
func (h *AdminHandler) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrNotFound), util.IsError(err, util.ErrUserNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	h.respondWithJSON(w, statusCode, map[string]string{"error": message})
}

// render buffers the page so a failing template never leaves a half-written response.
func (h *AdminHandler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page, data); err != nil {
		h.logger.ErrorContext(r.Context(), "Template execution failed", "page", page, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *AdminHandler) renderError(w http.ResponseWriter, r *http.Request, message string, err error) {
	h.logger.ErrorContext(r.Context(), message, "path", r.URL.Path, "error", err)
	h.render(w, r, http.StatusInternalServerError, PageError, errorPage{
		pageMeta: pageMeta{Title: "Error", Flash: popFlash(w, r)},
		Message:  message,
	})
}

// pageRequest reads the zero-based page and size query parameters.
func (h *AdminHandler) pageRequest(r *http.Request) types.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	return types.PageRequest{Page: page, Size: size}.Normalize(h.pageSize)
}

func redirectToUsers(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// Dashboard renders the statistics page.
// GET / and GET /dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.service.GetDashboard(r.Context())
	if err != nil {
		h.renderError(w, r, "The dashboard could not be loaded.", err)
		return
	}

	h.render(w, r, http.StatusOK, PageDashboard, dashboardPage{
		pageMeta:  pageMeta{Title: "Dashboard", Flash: popFlash(w, r)},
		Dashboard: dash,
		Activity:  activityBars(dash.Activity),
	})
}

// ListUsers renders one page of users, optionally filtered by search.
// GET /users?search=&page=&size=
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	users, err := h.service.GetUsers(r.Context(), search, h.pageRequest(r))
	if err != nil {
		h.renderError(w, r, "Users could not be loaded.", err)
		return
	}

	h.render(w, r, http.StatusOK, PageUsers, usersPage{
		pageMeta: pageMeta{Title: "Users", Flash: popFlash(w, r)},
		Search:   search,
		Users:    users,
	})
}

// UserDetail renders a user with a page of their transactions.
// GET /users/{userID}?page=
func (h *AdminHandler) UserDetail(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		setFlash(w, FlashError, "User not found")
		redirectToUsers(w, r)
		return
	}

	detail, err := h.service.GetUserDetail(r.Context(), userID, h.pageRequest(r))
	if err != nil {
		if util.IsError(err, util.ErrUserNotFound) {
			setFlash(w, FlashError, "User not found")
			redirectToUsers(w, r)
			return
		}
		h.renderError(w, r, "The user could not be loaded.", err)
		return
	}

	h.render(w, r, http.StatusOK, PageUserDetail, userDetailPage{
		pageMeta:     pageMeta{Title: detail.User.Name, Flash: popFlash(w, r)},
		User:         detail.User,
		Transactions: detail.Transactions,
	})
}

// DeleteUser removes a user and their transactions, then goes back to the list.
// POST /users/{userID}/delete
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		setFlash(w, FlashError, "Failed to delete user: invalid user id")
		redirectToUsers(w, r)
		return
	}

	if err := h.service.DeleteUser(r.Context(), userID); err != nil {
		h.logger.WarnContext(r.Context(), "User deletion failed", "user_id", userID, "error", err)
		setFlash(w, FlashError, "Failed to delete user: "+err.Error())
		redirectToUsers(w, r)
		return
	}

	setFlash(w, FlashSuccess, "User deleted successfully")
	redirectToUsers(w, r)
}

// Stats returns the dashboard snapshot as JSON.
// GET /api/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	dash, err := h.service.GetDashboard(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, dash.Snapshot)
}

// APIUsers returns a page of users as JSON.
// GET /api/users?search=&page=&size=
func (h *AdminHandler) APIUsers(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	users, err := h.service.GetUsers(r.Context(), search, h.pageRequest(r))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, users)
}

// APIUserTransactions returns a page of a user's transactions as JSON.
// GET /api/users/{userID}/transactions?page=&size=
func (h *AdminHandler) APIUserTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	transactions, err := h.service.GetUserTransactions(r.Context(), userID, h.pageRequest(r))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, transactions)
}

// activityBars scales daily counts to percentages of the busiest day.
func activityBars(days []domain.DailyCount) []activityBar {
	var peak int64
	for _, d := range days {
		if d.Count > peak {
			peak = d.Count
		}
	}

	bars := make([]activityBar, len(days))
	for i, d := range days {
		bars[i] = activityBar{Day: d.Day, Count: d.Count}
		if peak > 0 {
			bars[i].Percent = int(d.Count * 100 / peak)
		}
	}
	return bars
}
