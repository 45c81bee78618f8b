package handlers

import (
	"net/http"
	"strings"
	"time"

	"finance-predictor/internal/apperr"
	"finance-predictor/internal/auth"
	"finance-predictor/internal/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// AuthViewModel holds data for the login and signup pages.
type AuthViewModel struct {
	Error    string
	Username string
}

// Home sends visitors to the page matching their session.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if _, err := h.db.ValidateSession(r.Context(), cookie.Value); err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
	}
	if h.isAdmin(r) {
		http.Redirect(w, r, "/admin_dashboard", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// SignupForm renders the signup page.
func (h *Handlers) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "signup.html", AuthViewModel{})
}

// Signup registers a new account and sends the user to the login page.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest, "signup.html", AuthViewModel{Error: "Invalid form submission"})
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	_, err := h.auth.Register(r.Context(), username, r.FormValue("password"))
	switch {
	case err == nil:
		http.Redirect(w, r, "/login", http.StatusFound)
	case errors.Is(err, apperr.ErrDuplicateUser):
		h.renderStatus(w, r, http.StatusConflict, "signup.html", AuthViewModel{Error: "User already exists.", Username: username})
	case errors.Is(err, apperr.ErrInvalidInput):
		h.renderStatus(w, r, http.StatusBadRequest, "signup.html", AuthViewModel{Error: "Username and password are required", Username: username})
	default:
		logger.Error("signup", zap.Error(err))
		h.renderStatus(w, r, http.StatusInternalServerError, "signup.html", AuthViewModel{Error: "An error occurred. Please try again."})
	}
}

// LoginForm renders the login page.
func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	// If already logged in, redirect to the dashboard
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if _, err := h.db.ValidateSession(r.Context(), cookie.Value); err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
	}
	h.render(w, r, "login.html", AuthViewModel{})
}

// Login handles the login form submission.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest, "login.html", AuthViewModel{Error: "Invalid form submission"})
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	user, err := h.auth.Authenticate(r.Context(), username, r.FormValue("password"))
	if err != nil {
		if !errors.Is(err, apperr.ErrInvalidCredentials) {
			logger.Error("login", zap.Error(err))
		}
		h.renderStatus(w, r, http.StatusUnauthorized, "login.html", AuthViewModel{Error: "Invalid credentials.", Username: username})
		return
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		logger.Error("generate session token", zap.Error(err))
		h.renderStatus(w, r, http.StatusInternalServerError, "login.html", AuthViewModel{Error: "An error occurred. Please try again."})
		return
	}

	expiresAt := time.Now().Add(SessionDuration)
	if err := h.db.CreateSession(r.Context(), token, user.ID, expiresAt); err != nil {
		logger.Error("create session", zap.Error(err))
		h.renderStatus(w, r, http.StatusInternalServerError, "login.html", AuthViewModel{Error: "An error occurred. Please try again."})
		return
	}

	h.setCookie(w, SessionCookieName, token, SessionDuration)
	logger.Info("user logged in", zap.String("username", user.Username))
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// Logout ends both the user and the admin session.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.db.DeleteSession(r.Context(), cookie.Value); err != nil {
			logger.Error("delete session", zap.Error(err))
		}
	}
	h.clearCookie(w, SessionCookieName)
	h.clearCookie(w, AdminCookieName)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// DeleteAccountForm asks for confirmation.
func (h *Handlers) DeleteAccountForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "delete_account.html", GetUserFromContext(r))
}

// DeleteAccount removes the user together with their records and sessions.
func (h *Handlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	if err := h.db.DeleteUser(r.Context(), user.Username); err != nil {
		h.fail(w, r, "delete account", err)
		return
	}

	h.clearCookie(w, SessionCookieName)
	logger.Info("account deleted", zap.String("username", user.Username))
	h.message(w, r, http.StatusOK, MessageViewModel{
		Title:   "Account deleted",
		Message: "🗑️ Your account has been deleted successfully.",
		Links:   []Link{{Href: "/signup", Text: "Sign Up Again"}},
	})
}
