package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"authapi/internal/core/domain"
	"authapi/internal/core/port"
	tel "authapi/internal/core/telemetry"
)

type CredentialVerifier struct {
	repo      port.UserRepository
	hasher    port.PasswordHasher
	logger    *otelzap.Logger
	telemetry port.Telemetry
}

func NewCredentialVerifier(repo port.UserRepository, hasher port.PasswordHasher, logger *otelzap.Logger, telemetry port.Telemetry) *CredentialVerifier {
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}

	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &CredentialVerifier{
		repo:      repo,
		hasher:    hasher,
		logger:    logger,
		telemetry: telemetry,
	}
}

// Verify looks the account up by exact email and checks the password
// against the stored hash. It returns domain.ErrNotFound when no account
// exists and domain.ErrInvalidCredentials when the password is wrong.
func (v *CredentialVerifier) Verify(ctx context.Context, email string, password string) (domain.Identity, error) {
	start := time.Now()

	ctx, span := v.telemetry.StartServiceSpan(ctx, "auth", "verify", nil)
	defer span.End()

	identity, err := v.verify(ctx, email, password)

	if err == nil {
		span.SetAttributes(map[string]interface{}{"user.id": identity.ID})
	}

	v.telemetry.RecordServiceOperation(ctx, "auth", "verify", time.Since(start), err)

	return identity, err
}

func (v *CredentialVerifier) verify(ctx context.Context, email string, password string) (domain.Identity, error) {
	user, err := v.repo.GetByEmail(ctx, email)

	if errors.Is(err, domain.ErrNotFound) {
		v.logger.Ctx(ctx).Info("Auth#Verify", zap.String("result", "not_found"))
		return domain.Identity{}, domain.ErrNotFound
	}

	if err != nil {
		v.logger.Ctx(ctx).Error("Auth#Verify", zap.String("step", "get_by_email"), zap.Error(err))
		return domain.Identity{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := v.hasher.Compare(password, user.EncryptedPassword); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			v.logger.Ctx(ctx).Info("Auth#Verify", zap.String("result", "invalid_credentials"), zap.Int("user_id", user.ID))
			return domain.Identity{}, domain.ErrInvalidCredentials
		}

		v.logger.Ctx(ctx).Error("Auth#Verify", zap.String("step", "compare_password"), zap.Int("user_id", user.ID), zap.Error(err))
		return domain.Identity{}, err
	}

	return user.Identity(), nil
}
