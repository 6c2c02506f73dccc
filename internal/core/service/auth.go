package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"authapi/internal/core/domain"
	"authapi/internal/core/model/request"
	"authapi/internal/core/port"
	tel "authapi/internal/core/telemetry"
)

type AuthService struct {
	repo      port.UserRepository
	hasher    port.PasswordHasher
	verifier  port.CredentialVerifier
	issuer    port.TokenIssuer
	logger    *otelzap.Logger
	telemetry port.Telemetry
}

func NewAuthService(
	repo port.UserRepository,
	hasher port.PasswordHasher,
	verifier port.CredentialVerifier,
	issuer port.TokenIssuer,
	logger *otelzap.Logger,
	telemetry port.Telemetry,
) *AuthService {
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}

	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		verifier:  verifier,
		issuer:    issuer,
		logger:    logger,
		telemetry: telemetry,
	}
}

func (as *AuthService) Registration(ctx context.Context, req *request.SignUpRequest) (*domain.User, error) {
	start := time.Now()

	ctx, span := as.telemetry.StartServiceSpan(ctx, "auth", "registration", nil)
	defer span.End()

	user, err := as.register(ctx, req)

	if err == nil {
		span.SetAttributes(map[string]interface{}{"user.id": user.ID})
	}

	as.telemetry.RecordServiceOperation(ctx, "auth", "registration", time.Since(start), err)

	if err != nil {
		return nil, err
	}

	as.telemetry.RecordBusinessEvent(ctx, "user.registered", "user", user.UUID.String(), nil)

	return user, nil
}

func (as *AuthService) register(ctx context.Context, req *request.SignUpRequest) (*domain.User, error) {
	oldUser, err := as.repo.GetByEmail(ctx, req.Email)

	if err == nil && oldUser.Email != "" {
		return nil, domain.ErrConflict
	}

	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		as.telemetry.RecordError(ctx, "auth.registration", err, map[string]interface{}{"step": "get_by_email"})
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	encrypted, err := as.hasher.Hash(req.Password)

	if err != nil {
		as.telemetry.RecordError(ctx, "auth.registration", err, map[string]interface{}{"step": "hash_password"})
		return nil, fmt.Errorf("error creating encrypted password: %w", err)
	}

	now := time.Now().UTC()

	user := domain.User{
		UUID:              uuid.New(),
		Name:              strings.TrimSpace(req.Name),
		Email:             req.Email,
		EncryptedPassword: encrypted,
		Role:              domain.Profile,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	savedUser, err := as.repo.Create(ctx, user)

	// A concurrent signup with the same email loses at the unique index.
	if errors.Is(err, domain.ErrConflict) {
		return nil, domain.ErrConflict
	}

	if err != nil {
		as.telemetry.RecordError(ctx, "auth.registration", err, map[string]interface{}{"step": "create"})
		return nil, fmt.Errorf("create user: %w", err)
	}

	as.logger.Ctx(ctx).Info("Auth#Registration", zap.Int("user_id", savedUser.ID), zap.String("user_uuid", savedUser.UUID.String()))

	return &savedUser, nil
}

func (as *AuthService) Login(ctx context.Context, req *request.LoginRequest) (*domain.AuthToken, error) {
	start := time.Now()

	ctx, span := as.telemetry.StartServiceSpan(ctx, "auth", "login", nil)
	defer span.End()

	token, err := as.login(ctx, req)

	if err == nil {
		span.SetAttributes(map[string]interface{}{"token.expires_at": token.ExpiresAt.Unix()})
	}

	as.telemetry.RecordServiceOperation(ctx, "auth", "login", time.Since(start), err)

	return token, err
}

func (as *AuthService) login(ctx context.Context, req *request.LoginRequest) (*domain.AuthToken, error) {
	identity, err := as.verifier.Verify(ctx, req.Email, req.Password)

	if err != nil {
		return nil, err
	}

	token, err := as.issuer.Issue(ctx, identity)

	if err != nil {
		as.logger.Ctx(ctx).Error("Auth#Login", zap.String("step", "issue_token"), zap.Int("user_id", identity.ID), zap.Error(err))
		return nil, err
	}

	as.logger.Ctx(ctx).Info("Auth#Login", zap.Int("user_id", identity.ID))

	return &token, nil
}
