package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance-predictor/internal/auth"
	"finance-predictor/internal/config"
	"finance-predictor/internal/handlers"
	"finance-predictor/internal/logger"
	"finance-predictor/internal/predict"
	"finance-predictor/internal/storage"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	if err := logger.Init(cfg.LogEnv); err != nil {
		logger.Fatal("failed to init logger", zap.Error(err))
	}
	defer logger.Sync()

	db, err := storage.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err), zap.String("path", cfg.Database.Path))
	}
	defer db.Close()

	if n, err := db.CleanExpiredSessions(context.Background()); err != nil {
		logger.Warn("failed to clean expired sessions", zap.Error(err))
	} else if n > 0 {
		logger.Info("expired sessions removed", zap.Int64("count", n))
	}

	predictor, err := predict.Load(cfg.Models.ExpensePath, cfg.Models.FinancialPath)
	if err != nil {
		logger.Fatal("failed to load models", zap.Error(err))
	}

	if cfg.Auth.AdminPassword == "" {
		logger.Warn("ADMIN_PASSWORD is empty, admin login is disabled")
	}
	admin := auth.NewAdminGate(cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, cfg.Auth.SecretKey)

	h := handlers.NewHandlers(db, predictor, admin, handlers.Options{
		TemplateDir:  cfg.Server.TemplateDir,
		SecureCookie: cfg.Server.SecureCookie,
		PredictRoute: cfg.Models.PredictRoute,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           setupRouter(h, cfg.Server.StaticDir),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server started", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

// setupRouter registers all routes and wraps them with request
// instrumentation.
func setupRouter(h *handlers.Handlers, staticDir string) http.Handler {
	return handlers.Instrument(h.Routes(staticDir))
}
