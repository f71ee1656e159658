package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"pulseboard/internal/auth"
	"pulseboard/internal/config"
	"pulseboard/internal/dashboard"
	transporthttp "pulseboard/internal/http"
	"pulseboard/internal/platform/database"
	"pulseboard/internal/platform/logging"
	"pulseboard/internal/platform/migrate"
	"pulseboard/internal/tasks"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		// Config errors include a missing JWT secret; never start without one.
		panic(err)
	}

	logger := logging.New(cfg.LogLevel, cfg.Environment)

	userRepo, taskRepo, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize repositories", "error", err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	tokenService, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		logger.Error("failed to initialize token service", "error", err)
		os.Exit(1)
	}

	authSvc := auth.NewService(userRepo, auth.NewPasswordHasher(), tokenService)
	taskSvc := tasks.NewService(taskRepo)
	dashboardSvc := dashboard.NewService(taskSvc)

	var google *auth.GoogleAuthenticator
	if cfg.GoogleOAuthEnabled() {
		google, err = auth.NewGoogleAuthenticator(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		if err != nil {
			logger.Error("failed to initialize Google OAuth", "error", err)
			os.Exit(1)
		}
	}

	router := transporthttp.NewRouter(cfg, transporthttp.RouterDeps{
		Auth:      authSvc,
		Tasks:     taskSvc,
		Dashboard: dashboardSvc,
		Google:    google,
	}, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}

	go func() {
		logger.Info("Pulseboard API listening", "addr", srv.Addr, "store", cfg.DataStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (auth.Repository, tasks.Repository, func(), error) {
	if cfg.UseInMemoryStore() {
		logger.Info("using in-memory repositories")
		users, demoTasks := seedDemoData()
		return auth.NewInMemoryRepository(users), tasks.NewInMemoryRepository(demoTasks), nil, nil
	}

	db, err := database.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}

	cleanup := func() {
		_ = db.Close()
	}

	if err := migrate.Apply(ctx, db, logger); err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	logger.Info("connected to postgres")
	return auth.NewPostgresRepository(db), tasks.NewPostgresRepository(db), cleanup, nil
}
