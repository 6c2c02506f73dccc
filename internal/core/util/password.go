package util

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"authapi/internal/core/domain"
)

// BcryptHasher implements port.PasswordHasher.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	return GenerateEncrypt(password, h.cost)
}

// Compare returns domain.ErrInvalidCredentials on a mismatch. Any other
// error means the stored hash itself is unusable.
func (h *BcryptHasher) Compare(password, encrypted string) error {
	err := ComparePassword(password, encrypted)

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.ErrInvalidCredentials
	}

	if err != nil {
		return fmt.Errorf("compare password: %w", err)
	}

	return nil
}

func GenerateEncrypt(password string, cost int) (string, error) {
	encrypted, err := bcrypt.GenerateFromPassword([]byte(password), cost)

	if err != nil {
		return "", err
	}

	return string(encrypted), nil
}

func ComparePassword(password, encrypted string) error {
	return bcrypt.CompareHashAndPassword([]byte(encrypted), []byte(password))
}
