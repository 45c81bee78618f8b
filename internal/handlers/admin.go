package handlers

import (
	"net/http"
	"strconv"

	"finance-predictor/internal/apperr"
	"finance-predictor/internal/auth"
	"finance-predictor/internal/logger"
	"finance-predictor/internal/models"

	"go.uber.org/zap"
)

// AdminLoginViewModel holds data for the admin login page.
type AdminLoginViewModel struct {
	Error string
}

// AdminDashboardViewModel is the data passed to the admin dashboard.
type AdminDashboardViewModel struct {
	Feedbacks []models.Feedback
}

// AdminLoginForm renders the admin login page.
func (h *Handlers) AdminLoginForm(w http.ResponseWriter, r *http.Request) {
	if h.isAdmin(r) {
		http.Redirect(w, r, "/admin_dashboard", http.StatusFound)
		return
	}
	h.render(w, r, "admin_login.html", AdminLoginViewModel{})
}

// AdminLogin checks the configured admin credentials and sets the admin cookie.
func (h *Handlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest, "admin_login.html", AdminLoginViewModel{Error: "Invalid form submission"})
		return
	}

	token, err := h.admin.Login(r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		logger.Warn("admin login rejected", zap.String("remote", r.RemoteAddr))
		h.renderStatus(w, r, apperr.Status(err), "admin_login.html", AdminLoginViewModel{Error: "Invalid Admin Credentials"})
		return
	}

	h.setCookie(w, AdminCookieName, token, auth.AdminSessionDuration)
	http.Redirect(w, r, "/admin_dashboard", http.StatusFound)
}

// AdminDashboard lists all feedback with reply and delete controls.
func (h *Handlers) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	list, err := h.db.ListFeedback(r.Context(), 0)
	if err != nil {
		h.fail(w, r, "list feedback", err)
		return
	}
	h.render(w, r, "admin_dashboard.html", AdminDashboardViewModel{Feedbacks: list})
}

// AdminReply stores the admin's reply to a feedback entry.
func (h *Handlers) AdminReply(w http.ResponseWriter, r *http.Request) {
	id, err := feedbackID(r)
	if err != nil {
		h.fail(w, r, "admin reply", err)
		return
	}
	if err := h.db.ReplyFeedback(r.Context(), id, r.FormValue("reply")); err != nil {
		h.fail(w, r, "admin reply", err)
		return
	}
	http.Redirect(w, r, "/admin_dashboard", http.StatusFound)
}

// DeleteFeedback removes a feedback entry.
func (h *Handlers) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := feedbackID(r)
	if err != nil {
		h.fail(w, r, "delete feedback", err)
		return
	}
	if err := h.db.DeleteFeedback(r.Context(), id); err != nil {
		h.fail(w, r, "delete feedback", err)
		return
	}
	http.Redirect(w, r, "/admin_dashboard", http.StatusFound)
}

// AdminLogout clears the admin cookie.
func (h *Handlers) AdminLogout(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, AdminCookieName)
	http.Redirect(w, r, "/admin_login", http.StatusFound)
}

func feedbackID(r *http.Request) (int64, error) {
	if err := r.ParseForm(); err != nil {
		return 0, apperr.InvalidInput("invalid form submission")
	}
	id, err := strconv.ParseInt(r.FormValue("feedback_id"), 10, 64)
	if err != nil {
		return 0, apperr.InvalidInput("feedback_id must be a number")
	}
	return id, nil
}
