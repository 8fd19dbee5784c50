package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/brf-booking-backend/internal/app"
	"github.com/nekogravitycat/brf-booking-backend/internal/config"
	"github.com/nekogravitycat/brf-booking-backend/internal/db"
	"github.com/nekogravitycat/brf-booking-backend/internal/pkg/logger"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.IsProduction)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		zl.Fatal("failed to connect to db", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, zl); err != nil {
		zl.Fatal("failed to migrate db", zap.Error(err))
	}

	container, err := app.NewContainer(app.Config{
		IsProduction:       cfg.IsProduction,
		FrontendOrigins:    cfg.FrontendOrigins,
		DBPool:             pool,
		Logger:             zl,
		JWTSecret:          cfg.JWTSecret,
		SessionTTL:         cfg.SessionTTL,
		BcryptCost:         cfg.BcryptCost,
		CSVURL:             cfg.CSVURL,
		ConfigURL:          cfg.ConfigURL,
		GitHubToken:        cfg.GitHubToken,
		RosterReloadSpec:   cfg.RosterReloadSpec,
		LoginRatePerMinute: cfg.LoginRatePerMinute,
	})
	if err != nil {
		zl.Fatal("failed to build application", zap.Error(err))
	}

	// Load the roster and booking config before accepting logins.
	for _, job := range container.Jobs {
		jobCtx, cancel := context.WithTimeout(ctx, time.Minute)
		app.RunJob(jobCtx, zl, job)
		cancel()
	}
	container.Scheduler.Start()

	zl.Info("config loaded",
		zap.Bool("csv_url_set", cfg.CSVURL != ""),
		zap.Bool("github_token_set", cfg.GitHubToken != ""),
		zap.String("reload_spec", cfg.RosterReloadSpec),
	)

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	go func() {
		zl.Info("server running", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	zl.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	<-container.Scheduler.Stop().Done()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Warn("server forced to shutdown", zap.Error(err))
	}

	zl.Info("server exited gracefully")
}
