package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"authapi/internal/core/domain"
	"authapi/internal/core/port"
)

// DefaultTokenTTL applies when no expiry is configured.
const DefaultTokenTTL = time.Hour

// TokenService issues and validates access tokens. It holds no mutable
// state and is safe for concurrent use.
type TokenService struct {
	signer port.TokenSigner
	ttl    time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenService)

// WithClock overrides the wall clock used for iat/exp.
func WithClock(now func() time.Time) TokenOption {
	return func(ts *TokenService) {
		ts.now = now
	}
}

func NewTokenService(signer port.TokenSigner, ttl time.Duration, opts ...TokenOption) *TokenService {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}

	ts := &TokenService{
		signer: signer,
		ttl:    ttl,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(ts)
	}

	return ts
}

func (ts *TokenService) Issue(ctx context.Context, identity domain.Identity) (domain.AuthToken, error) {
	now := ts.now()

	claims := domain.Claims{
		UserID:    identity.ID,
		Subject:   identity.UUID.String(),
		IssuedAt:  now,
		ExpiresAt: now.Add(ts.ttl),
	}

	token, err := ts.signer.Sign(claims)

	if err != nil {
		return domain.AuthToken{}, fmt.Errorf("sign token: %w", err)
	}

	return domain.AuthToken{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt,
	}, nil
}

// Validate never consults storage: a token stays valid until it expires.
func (ts *TokenService) Validate(ctx context.Context, token string) (domain.Claims, error) {
	if token == "" {
		return domain.Claims{}, fmt.Errorf("empty token: %w", domain.ErrUnauthenticated)
	}

	claims, err := ts.signer.Verify(token)

	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return domain.Claims{}, err
		}

		return domain.Claims{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	// Repositories never hand out ids below 1.
	if claims.UserID <= 0 {
		return domain.Claims{}, fmt.Errorf("token has no user id: %w", domain.ErrUnauthenticated)
	}

	return claims, nil
}
