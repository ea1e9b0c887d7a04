// Command salonctl drives the salon dashboard backend from a terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/octabyte/salon-gommon/config"
	salonotel "github.com/octabyte/salon-gommon/otel"
	"github.com/octabyte/salon-gommon/otel/metrics"
	"github.com/octabyte/salon-gommon/utils/logger"
)

const serviceName = "salonctl"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger.Init(cfg.LoggerConfig(serviceName))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := salonotel.InitOpenTelemetry(ctx, cfg.OpenTelemetryConfig(serviceName))
	if err != nil {
		logger.LogErrorf("failed to initialize OpenTelemetry: %v", err)
		shutdown = func() {}
	}
	defer shutdown()
	if err := metrics.Init(serviceName); err != nil {
		logger.LogErrorf("failed to initialize metrics: %v", err)
	}

	if err := run(ctx, cfg, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "salonctl:", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
