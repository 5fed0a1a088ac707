package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pastoral-backend/internal/auth"
	"pastoral-backend/internal/config"
	"pastoral-backend/internal/database"
	"pastoral-backend/internal/logging"
	"pastoral-backend/internal/metrics"
	"pastoral-backend/internal/router"
	"pastoral-backend/internal/store"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg, log)
	if err != nil {
		return err
	}
	st := store.NewGormStore(db)
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn("closing database", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	created, err := database.SeedAdmin(ctx, db, cfg.SeedAdminName, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	if created {
		log.Info("seeded admin user", zap.String("email", cfg.SeedAdminEmail))
		if cfg.UsesDefaultAdminPassword() {
			log.Warn("seed admin uses the default password; change SEED_ADMIN_PASSWORD")
		}
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	guard := auth.NewLoginProtection(auth.ProtectionConfig{
		IPRateLimit:       cfg.LoginRateLimit,
		IPBurst:           cfg.LoginBurst,
		MaxFailedAttempts: cfg.LoginMaxFailures,
		LockoutDuration:   cfg.LoginLockout,
	}, log)
	go guard.Run(ctx)

	app := router.New(router.Deps{
		Config:  cfg,
		Log:     log,
		Store:   st,
		Metrics: m,
		Guard:   guard,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("port", cfg.HTTPPort), zap.String("env", cfg.Env))
		errCh <- app.Listen(":" + cfg.HTTPPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
