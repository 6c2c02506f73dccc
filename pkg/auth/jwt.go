package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"authapi/internal/core/domain"
)

// AccessClaims is the wire payload of an access token.
type AccessClaims struct {
	UserID int `json:"userId"`
	jwt.RegisteredClaims
}

// JWT implements port.TokenSigner with an HMAC secret. It is immutable after
// construction and safe to share across goroutines.
type JWT struct {
	secret []byte
	method jwt.SigningMethod
	issuer string
	parser *jwt.Parser
}

// NewJWT fails with domain.ErrMisconfigured when the secret is empty or the
// algorithm is not one of HS256, HS384, HS512.
func NewJWT(secret string, algorithm string, issuer string) (*JWT, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: missing jwt secret key", domain.ErrMisconfigured)
	}

	if algorithm == "" {
		algorithm = jwt.SigningMethodHS256.Alg()
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)

	if !ok {
		return nil, fmt.Errorf("%w: unsupported jwt algorithm %q", domain.ErrMisconfigured, algorithm)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}

	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	return &JWT{
		secret: []byte(secret),
		method: method,
		issuer: issuer,
		parser: jwt.NewParser(opts...),
	}, nil
}

func (j *JWT) Algorithm() string {
	return j.method.Alg()
}

func (j *JWT) Sign(claims domain.Claims) (string, error) {
	token := jwt.NewWithClaims(j.method, AccessClaims{
		UserID: claims.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    j.issuer,
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	})

	return token.SignedString(j.secret)
}

// Verify wraps every parse failure in domain.ErrUnauthenticated. The jwt
// cause stays reachable through errors.Is, e.g. jwt.ErrTokenExpired.
func (j *JWT) Verify(tokenString string) (domain.Claims, error) {
	claims := &AccessClaims{}

	token, err := j.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return j.secret, nil
	})

	if err != nil {
		return domain.Claims{}, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}

	if !token.Valid {
		return domain.Claims{}, fmt.Errorf("%w: invalid access token", domain.ErrUnauthenticated)
	}

	result := domain.Claims{
		UserID:  claims.UserID,
		Subject: claims.Subject,
	}

	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}

	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}

	return result, nil
}
