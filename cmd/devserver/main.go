// Command devserver runs the in-memory salon backend for local development.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/octabyte/salon-gommon/config"
	"github.com/octabyte/salon-gommon/devserver"
	salonotel "github.com/octabyte/salon-gommon/otel"
	"github.com/octabyte/salon-gommon/utils/logger"
	"go.uber.org/zap"
)

const serviceName = "devserver"

func main() {
	cfg, err := config.LoadDevServer()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger.Init(&logger.Config{Level: cfg.LogLevel, Env: cfg.Env, ServiceName: serviceName})
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOtel, err := salonotel.InitOpenTelemetry(ctx, salonotel.OtelConfig{
		Enabled:     cfg.Otel.Enabled,
		Endpoint:    cfg.Otel.Endpoint,
		ServiceName: serviceName,
		Environment: cfg.Env,
		SampleRate:  cfg.Otel.SampleRate,
	})
	if err != nil {
		logger.LogErrorf("failed to initialize OpenTelemetry: %v", err)
		shutdownOtel = func() {}
	}
	defer shutdownOtel()

	server := devserver.New(devserver.Options{
		JWTSecret:   []byte(cfg.JWTSecret),
		AccessTTL:   cfg.AccessTTL,
		RefreshTTL:  cfg.RefreshTTL,
		ServiceName: serviceName,
		Tracing:     cfg.Otel.Enabled,
	})
	if err := server.Seed(); err != nil {
		logger.LogError("failed to seed data", zap.Error(err))
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.LogInfo("devserver listening", zap.String("addr", cfg.Addr), zap.String("admin", devserver.SeedAdminEmail))
		errCh <- server.Start(cfg.Addr)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.LogError("devserver stopped", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	logger.LogInfo("shutting down devserver")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.LogError("graceful shutdown failed", zap.Error(err))
	}
}
