package port

import (
	"context"

	"authapi/internal/core/domain"
	"authapi/internal/core/model/request"
)

type AuthService interface {
	Registration(ctx context.Context, req *request.SignUpRequest) (*domain.User, error)
	Login(ctx context.Context, req *request.LoginRequest) (*domain.AuthToken, error)
}

type CredentialVerifier interface {
	Verify(ctx context.Context, email string, password string) (domain.Identity, error)
}

type TokenIssuer interface {
	Issue(ctx context.Context, identity domain.Identity) (domain.AuthToken, error)
}

type TokenValidator interface {
	Validate(ctx context.Context, token string) (domain.Claims, error)
}

// TokenSigner is the signing mechanism behind the issuer and validator.
type TokenSigner interface {
	Sign(claims domain.Claims) (string, error)
	Verify(token string) (domain.Claims, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password string, hash string) error
}
