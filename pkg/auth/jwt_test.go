package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/gomega"

	"authapi/internal/core/domain"
)

func newClaims(ttl time.Duration) domain.Claims {
	now := time.Now()

	return domain.Claims{
		UserID:    42,
		Subject:   "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

func mustJWT(t *testing.T, secret, alg, issuer string) *JWT {
	t.Helper()

	j, err := NewJWT(secret, alg, issuer)

	if err != nil {
		t.Fatalf("NewJWT error: %v", err)
	}

	return j
}

func TestNewJWT(t *testing.T) {
	RegisterTestingT(t)

	t.Run("missing secret is a misconfiguration", func(t *testing.T) {
		_, err := NewJWT("", "HS256", "")
		Expect(errors.Is(err, domain.ErrMisconfigured)).To(BeTrue())
	})

	t.Run("non HMAC algorithm is a misconfiguration", func(t *testing.T) {
		_, err := NewJWT("secret", "RS256", "")
		Expect(errors.Is(err, domain.ErrMisconfigured)).To(BeTrue())

		_, err = NewJWT("secret", "none", "")
		Expect(errors.Is(err, domain.ErrMisconfigured)).To(BeTrue())
	})

	t.Run("empty algorithm defaults to HS256", func(t *testing.T) {
		j := mustJWT(t, "secret", "", "")
		Expect(j.Algorithm()).To(Equal("HS256"))
	})
}

func TestJWT_SignAndVerify(t *testing.T) {
	RegisterTestingT(t)

	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		t.Run(alg, func(t *testing.T) {
			j := mustJWT(t, "super-secret", alg, "authapi")

			token, err := j.Sign(newClaims(time.Hour))
			Expect(err).ToNot(HaveOccurred())
			Expect(token).ToNot(BeEmpty())

			claims, err := j.Verify(token)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal(42))
			Expect(claims.Subject).To(Equal("1b4e28ba-2fa1-11d2-883f-0016d3cca427"))
			Expect(claims.ExpiresAt).To(BeTemporally(">", time.Now()))
		})
	}
}

func TestJWT_Verify_Expired(t *testing.T) {
	RegisterTestingT(t)

	j := mustJWT(t, "secret", "HS256", "")

	token, err := j.Sign(newClaims(-time.Minute))
	Expect(err).ToNot(HaveOccurred())

	_, err = j.Verify(token)
	Expect(errors.Is(err, domain.ErrUnauthenticated)).To(BeTrue())
	Expect(errors.Is(err, jwt.ErrTokenExpired)).To(BeTrue())
}

func TestJWT_Verify_WrongSecret(t *testing.T) {
	RegisterTestingT(t)

	token, err := mustJWT(t, "right-secret", "HS256", "").Sign(newClaims(time.Hour))
	Expect(err).ToNot(HaveOccurred())

	_, err = mustJWT(t, "wrong-secret", "HS256", "").Verify(token)
	Expect(errors.Is(err, domain.ErrUnauthenticated)).To(BeTrue())
}

func TestJWT_Verify_DifferentAlgorithm(t *testing.T) {
	RegisterTestingT(t)

	token, err := mustJWT(t, "secret", "HS512", "").Sign(newClaims(time.Hour))
	Expect(err).ToNot(HaveOccurred())

	_, err = mustJWT(t, "secret", "HS256", "").Verify(token)
	Expect(errors.Is(err, domain.ErrUnauthenticated)).To(BeTrue())
}

func TestJWT_Verify_WrongIssuer(t *testing.T) {
	RegisterTestingT(t)

	token, err := mustJWT(t, "secret", "HS256", "someone-else").Sign(newClaims(time.Hour))
	Expect(err).ToNot(HaveOccurred())

	_, err = mustJWT(t, "secret", "HS256", "authapi").Verify(token)
	Expect(errors.Is(err, domain.ErrUnauthenticated)).To(BeTrue())
}

func TestJWT_Verify_Malformed(t *testing.T) {
	RegisterTestingT(t)

	j := mustJWT(t, "secret", "HS256", "")

	for _, token := range []string{"not.a.jwt", "garbage", ""} {
		_, err := j.Verify(token)
		Expect(errors.Is(err, domain.ErrUnauthenticated)).To(BeTrue(), "token %q", token)
	}
}

func TestJWT_Verify_UnsignedToken(t *testing.T) {
	RegisterTestingT(t)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, AccessClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	Expect(err).ToNot(HaveOccurred())

	_, err = mustJWT(t, "secret", "HS256", "").Verify(token)
	Expect(errors.Is(err, domain.ErrUnauthenticated)).To(BeTrue())
}

func TestJWT_Payload_HasNoPassword(t *testing.T) {
	RegisterTestingT(t)

	j := mustJWT(t, "secret", "HS256", "")
	token, _ := j.Sign(newClaims(time.Hour))

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	Expect(err).ToNot(HaveOccurred())

	claims := parsed.Claims.(jwt.MapClaims)
	Expect(claims).To(HaveKey("userId"))
	Expect(claims).To(HaveKey("exp"))
	Expect(claims).To(HaveKey("iat"))
	Expect(claims).ToNot(HaveKey("password"))
}
