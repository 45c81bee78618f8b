package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"finance-predictor/internal/auth"
	"finance-predictor/internal/handlers"
	"finance-predictor/internal/predict"
	"finance-predictor/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRouter(t *testing.T) {
	// Setup dependencies
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err, "failed to create database")
	defer db.Close()

	if _, err := os.Stat("../../web/templates"); os.IsNotExist(err) {
		t.Skip("Template directory not found, skipping router test")
	}

	predictor, err := predict.Load("../../models/expense_predictor_model.json", "../../models/custom_predictor_model.json")
	require.NoError(t, err, "failed to load models")

	h := handlers.NewHandlers(db, predictor, auth.NewAdminGate("admin", "pw", "secret"), handlers.Options{
		TemplateDir: "../../web/templates",
	})

	// Create router - this panics if two patterns conflict
	mux := setupRouter(h, "../../web/static")

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		allowAlt   []int // Alternative acceptable status codes
	}{
		{
			name:       "Root redirects to login",
			method:     "GET",
			path:       "/",
			wantStatus: http.StatusFound,
		},
		{
			name:       "Static file access",
			method:     "GET",
			path:       "/static/style.css",
			wantStatus: http.StatusOK,
			allowAlt:   []int{http.StatusNotFound}, // File might not exist in test env
		},
		{
			name:       "Login page",
			method:     "GET",
			path:       "/login",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Demo result page",
			method:     "GET",
			path:       "/result",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Dashboard requires auth",
			method:     "GET",
			path:       "/dashboard",
			wantStatus: http.StatusFound,
		},
		{
			name:       "Save requires auth",
			method:     "POST",
			path:       "/save",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Delete record requires auth",
			method:     "POST",
			path:       "/delete/1",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Admin reply requires admin",
			method:     "POST",
			path:       "/admin_reply",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Admin dashboard redirects",
			method:     "GET",
			path:       "/admin_dashboard",
			wantStatus: http.StatusFound,
		},
		{
			name:       "Metrics endpoint",
			method:     "GET",
			path:       "/metrics",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Unknown route",
			method:     "GET",
			path:       "/nope",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			// Check if status matches expected or any alternative
			if len(tt.allowAlt) > 0 {
				acceptableStatuses := append([]int{tt.wantStatus}, tt.allowAlt...)
				assert.Contains(t, acceptableStatuses, w.Code,
					"%s %s returned unexpected status", tt.method, tt.path)
			} else {
				assert.Equal(t, tt.wantStatus, w.Code,
					"%s %s returned unexpected status", tt.method, tt.path)
			}
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}
