package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes registers every application route on a new mux.
func (h *Handlers) Routes(staticDir string) *http.ServeMux {
	mux := http.NewServeMux()

	// Static files
	fs := http.FileServer(http.Dir(staticDir))
	mux.Handle("GET /static/", http.StripPrefix("/static/", fs))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /{$}", h.Home)

	// Public routes
	mux.HandleFunc("GET /signup", h.SignupForm)
	mux.HandleFunc("POST /signup", h.Signup)
	mux.HandleFunc("GET /login", h.LoginForm)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /logout", h.Logout)
	mux.HandleFunc("POST /predict", h.Predict)
	mux.HandleFunc("GET /result", h.Result)
	mux.HandleFunc("GET /feedback", h.FeedbackForm)
	mux.HandleFunc("POST /feedback", h.SubmitFeedback)
	mux.HandleFunc("GET /feedbacks", h.Feedbacks)
	mux.HandleFunc("GET /view_feedbacks", h.ViewFeedbacks)

	// Protected routes
	user := func(fn http.HandlerFunc) http.Handler { return h.AuthMiddleware(fn) }
	mux.Handle("GET /dashboard", user(h.DashboardForm))
	mux.Handle("POST /dashboard", user(h.Dashboard))
	mux.Handle("POST /save", user(h.Save))
	mux.Handle("GET /history", user(h.History))
	mux.Handle("GET /history/export", user(h.ExportHistory))
	mux.Handle("GET /statistics", user(h.Statistics))
	mux.Handle("POST /delete/{id}", user(h.DeleteRecord))
	mux.Handle("GET /delete_account", user(h.DeleteAccountForm))
	mux.Handle("POST /delete_account", user(h.DeleteAccount))

	// Admin routes
	mux.HandleFunc("GET /admin_login", h.AdminLoginForm)
	mux.HandleFunc("POST /admin_login", h.AdminLogin)
	mux.HandleFunc("GET /admin_logout", h.AdminLogout)
	admin := func(fn http.HandlerFunc) http.Handler { return h.AdminMiddleware(fn) }
	mux.Handle("GET /admin_dashboard", admin(h.AdminDashboard))
	mux.Handle("POST /admin_reply", admin(h.AdminReply))
	mux.Handle("POST /delete_feedback", admin(h.DeleteFeedback))

	return mux
}
