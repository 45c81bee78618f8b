package handlers

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"time"

	"finance-predictor/internal/apperr"
	"finance-predictor/internal/auth"
	"finance-predictor/internal/config"
	"finance-predictor/internal/finance"
	"finance-predictor/internal/logger"
	"finance-predictor/internal/models"
	"finance-predictor/internal/predict"
	"finance-predictor/internal/storage"

	"go.uber.org/zap"
)

// Context key type to avoid collisions.
type contextKey string

const (
	// UserContextKey is the context key for the authenticated user.
	UserContextKey contextKey = "user"
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session"
	// AdminCookieName holds the signed admin token.
	AdminCookieName = "admin_session"
	// SessionDuration is how long sessions last (30 days).
	SessionDuration = 30 * 24 * time.Hour
)

// Options are the startup settings handlers need.
type Options struct {
	TemplateDir  string
	SecureCookie bool
	// PredictRoute selects the model behind POST /predict.
	PredictRoute string
}

// Handlers is the application context shared by every HTTP handler. It is
// built once at startup and never mutated afterwards.
type Handlers struct {
	db        *storage.DB
	auth      *auth.Authenticator
	admin     *auth.AdminGate
	predictor *predict.Service
	calc      *finance.Calculator
	opts      Options
	funcs     template.FuncMap
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *storage.DB, predictor *predict.Service, admin *auth.AdminGate, opts Options) *Handlers {
	if opts.PredictRoute == "" {
		opts.PredictRoute = config.PredictRouteFinancial
	}
	return &Handlers{
		db:        db,
		auth:      auth.NewAuthenticator(db),
		admin:     admin,
		predictor: predictor,
		calc:      finance.NewCalculator(predictor),
		opts:      opts,
		funcs: template.FuncMap{
			"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
		},
	}
}

// GetUserFromContext retrieves the authenticated user from request context.
func GetUserFromContext(r *http.Request) *models.User {
	if user, ok := r.Context().Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

// deny redirects page loads to loginPath and answers anything else with 401.
func deny(w http.ResponseWriter, r *http.Request, loginPath string) {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

// AuthMiddleware wraps handlers to require authentication.
// It also implements rolling sessions: if a session is past the halfway point
// of its lifetime, it automatically renews the session.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			deny(w, r, "/login")
			return
		}

		sessionInfo, err := h.db.ValidateSessionWithInfo(r.Context(), cookie.Value)
		if err != nil {
			// Invalid or expired session, clear the cookie
			h.clearCookie(w, SessionCookieName)
			deny(w, r, "/login")
			return
		}

		// Rolling session: renew if past halfway point
		now := time.Now()
		if sessionInfo.ExpiresAt.Sub(now) < SessionDuration/2 {
			newExpiresAt := now.Add(SessionDuration)
			if err := h.db.RenewSession(r.Context(), cookie.Value, newExpiresAt); err == nil {
				h.setCookie(w, SessionCookieName, cookie.Value, SessionDuration)
			} else {
				logger.Warn("renew session", zap.Error(err))
			}
		}

		ctx := context.WithValue(r.Context(), UserContextKey, sessionInfo.User)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminMiddleware admits only requests carrying a valid admin token.
func (h *Handlers) AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.isAdmin(r) {
			deny(w, r, "/admin_login")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handlers) isAdmin(r *http.Request) bool {
	cookie, err := r.Cookie(AdminCookieName)
	if err != nil {
		return false
	}
	return h.admin.Verify(cookie.Value) == nil
}

func (h *Handlers) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// MessageViewModel is a short notice with follow-up links.
type MessageViewModel struct {
	Title   string
	Message string
	Links   []Link
}

// Link is an anchor on a message page.
type Link struct {
	Href string
	Text string
}

func (h *Handlers) message(w http.ResponseWriter, r *http.Request, status int, msg MessageViewModel) {
	h.renderStatus(w, r, status, "message.html", msg)
}

// fail reports err to the client. Errors outside the taxonomy are logged and
// shown as a generic internal error.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		logger.Error(op, zap.Error(err), zap.String("path", r.URL.Path))
	}
	http.Error(w, apperr.Message(err), status)
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, viewName string, data any) {
	h.renderStatus(w, r, http.StatusOK, viewName, data)
}

func (h *Handlers) renderStatus(w http.ResponseWriter, r *http.Request, status int, viewName string, data any) {
	tmpl, err := template.New("base.html").Funcs(h.funcs).ParseFiles(
		filepath.Join(h.opts.TemplateDir, "base.html"),
		filepath.Join(h.opts.TemplateDir, viewName),
	)
	if err != nil {
		logger.Error("template parse", zap.String("view", viewName), zap.Error(err))
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	target := "base.html"
	if r.Header.Get("HX-Request") == "true" {
		target = "content"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, target, data); err != nil {
		logger.Error("template execute", zap.String("view", viewName), zap.Error(err))
	}
}
