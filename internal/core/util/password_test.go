package util

import (
	"testing"

	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"authapi/internal/core/domain"
)

func TestBcryptHasher(t *testing.T) {
	RegisterTestingT(t)

	hasher := NewBcryptHasher(bcrypt.MinCost)

	t.Run("hash never equals the plaintext", func(t *testing.T) {
		hash, err := hasher.Hash("secret123")

		Expect(err).ToNot(HaveOccurred())
		Expect(hash).ToNot(Equal("secret123"))
		Expect(hasher.Compare("secret123", hash)).To(Succeed())
	})

	t.Run("mismatch is reported as invalid credentials", func(t *testing.T) {
		hash, _ := hasher.Hash("secret123")

		err := hasher.Compare("wrong", hash)

		Expect(err).To(MatchError(domain.ErrInvalidCredentials))
	})

	t.Run("corrupt hash is not a credential failure", func(t *testing.T) {
		err := hasher.Compare("secret123", "not-a-bcrypt-hash")

		Expect(err).To(HaveOccurred())
		Expect(err).ToNot(MatchError(domain.ErrInvalidCredentials))
	})

	t.Run("out of range cost falls back to default", func(t *testing.T) {
		h := NewBcryptHasher(99)
		Expect(h.cost).To(Equal(bcrypt.DefaultCost))
	})
}
