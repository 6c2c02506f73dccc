package http

import (
	"context"
	"fmt"
	"io"

	"authapi/internal/adapter/database/memory"
	"authapi/internal/adapter/database/postgres"
	pgrepository "authapi/internal/adapter/database/postgres/repository"
	"authapi/internal/adapter/database/sqlite"
	sqliterepository "authapi/internal/adapter/database/sqlite/repository"
	"authapi/internal/adapter/http/handler"
	"authapi/internal/core/port"
	"authapi/internal/core/service"
	"authapi/internal/core/telemetry"
	"authapi/internal/core/util"
	"authapi/pkg/auth"
	"authapi/pkg/config"
)

type Container struct {
	UserRepo port.UserRepository

	AuthService  port.AuthService
	UserService  port.UserService
	TokenService *service.TokenService

	AuthHandler *handler.AuthHandler
	UserHandler *handler.UserHandler

	closer io.Closer
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

// NewContainer wires storage, services and handlers for the configured
// database driver.
func NewContainer(ctx context.Context, cfg *config.AppConfig, logger *config.LokiLogger, metrics *telemetry.AppMetrics, probe port.Telemetry) (*Container, error) {
	signer, err := auth.NewJWT(cfg.Secret, cfg.Algorithm, cfg.Issuer)

	if err != nil {
		return nil, err
	}

	userRepo, closer, err := newUserRepository(ctx, cfg, probe)

	if err != nil {
		return nil, err
	}

	hasher := util.NewBcryptHasher(cfg.BcryptCost)
	tokens := service.NewTokenService(signer, cfg.ExpiresIn)
	verifier := service.NewCredentialVerifier(userRepo, hasher, logger.Logger, probe)

	authSvc := service.NewAuthService(userRepo, hasher, verifier, tokens, logger.Logger, probe)
	userSvc := service.NewUserService(userRepo)

	return &Container{
		UserRepo: userRepo,

		AuthService:  authSvc,
		UserService:  userSvc,
		TokenService: tokens,

		AuthHandler: handler.NewAuthHandler(authSvc, logger,
			handler.WithMetrics(metrics),
			handler.WithConcealedAccounts(cfg.ConcealAccount),
		),
		UserHandler: handler.NewUserHandler(userSvc),

		closer: closer,
	}, nil
}

func newUserRepository(ctx context.Context, cfg *config.AppConfig, probe port.Telemetry) (port.UserRepository, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.NewUserRepository(), closerFunc(func() error { return nil }), nil

	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg.URL)

		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}

		return pgrepository.NewUserRepository(db, probe), closerFunc(func() error {
			db.Close()
			return nil
		}), nil

	default:
		db, err := sqlite.NewDB(sqlite.Config{Path: cfg.Path, SQLLogLevel: cfg.SQLLogLevel})

		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}

		return sqliterepository.NewUserRepository(db, probe), db, nil
	}
}

func (c *Container) Close() error {
	if c.closer == nil {
		return nil
	}

	return c.closer.Close()
}
