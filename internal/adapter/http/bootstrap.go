package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"authapi/internal/adapter/http/routes"
	"authapi/internal/core/port"
	"authapi/internal/core/telemetry"
	"authapi/pkg/config"
)

// StartServerWithConfig serves the API until ctx is cancelled, then drains
// in-flight requests within the configured shutdown timeout.
func StartServerWithConfig(ctx context.Context, cfg *config.AppConfig, metrics *telemetry.AppMetrics, logger *config.LokiLogger, probe port.Telemetry) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	container, err := NewContainer(ctx, cfg, logger, metrics, probe)

	if err != nil {
		return err
	}

	defer container.Close()

	router := routes.SetupRouterWithConfig(routes.HandlersConfig{
		AuthHandler:    container.AuthHandler,
		UserHandler:    container.UserHandler,
		TokenValidator: container.TokenService,
	}, metrics, logger, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Logger.Info("Server starting",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("database_driver", cfg.Driver),
		zap.String("jwt_algorithm", cfg.Algorithm),
		zap.Duration("jwt_expires_in", cfg.ExpiresIn),
		zap.Bool("https_enforced", cfg.EnforceHTTPS))

	errCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Logger.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func shutdownTimeout(cfg *config.AppConfig) time.Duration {
	if cfg.ShutdownTimeout <= 0 {
		return 10 * time.Second
	}

	return cfg.ShutdownTimeout
}
