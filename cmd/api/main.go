package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httpadapter "authapi/internal/adapter/http"
	"authapi/internal/adapter/telemetry"
	"authapi/pkg/config"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()

	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	logger, err := config.NewLokiLogger(cfg.ServiceName, cfg.LokiURL)

	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}

	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.NewContainer(ctx, telemetry.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version,
		Environment:    cfg.Environment,
		MetricsPort:    cfg.MetricsPort,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	}, logger.Logger)

	if err != nil {
		logger.Logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	tel.AppMetrics.StartSystemMetrics(ctx)

	if err := httpadapter.StartServerWithConfig(ctx, cfg, tel.AppMetrics, logger, tel.NewTelemetryProbe()); err != nil {
		logger.Logger.Error("Server stopped", zap.Error(err))
		return
	}

	logger.Logger.Info("Shut down gracefully")
}
