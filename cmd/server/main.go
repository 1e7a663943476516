package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alumni-connect/internal/app"
	"alumni-connect/internal/config"
	"alumni-connect/internal/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.App.LogLevel, cfg.App.LogJSON)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	zl = zl.With(zap.String("app", cfg.App.AppName), zap.String("env", cfg.App.Environment))

	err = run(cfg, zl)
	_ = zl.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run serves until SIGINT/SIGTERM or a listener failure. Cleanup always runs
// before it returns.
func run(cfg config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		zl.Error("invalid HTTP port", zap.Error(err))
		return err
	}

	bootstrap, cleanup, err := app.Bootstrap(ctx, cfg, zl)
	if err != nil {
		zl.Error("failed to bootstrap app", zap.Error(err))
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			zl.Warn("cleanup error", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		zl.Info("http server listening", zap.String("addr", addr))
		errCh <- bootstrap.Fiber.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			zl.Error("server error", zap.Error(err))
		}
		return err
	case <-ctx.Done():
		zl.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := bootstrap.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
			zl.Warn("shutdown error", zap.Error(err))
		}
		return nil
	}
}
