package factory

import (
	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the plaintext behind the hash NewUser sets when no
// EncryptedPassword is given.
const DefaultPassword = "12345678"

func NewUser[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	hasEncryptedPassword := false
	hasUUID := false

	for _, data := range customData {
		if _, exists := data["EncryptedPassword"]; exists {
			hasEncryptedPassword = true
		}

		if _, exists := data["UUID"]; exists {
			hasUUID = true
		}
	}

	if !hasEncryptedPassword {
		encryptedPassword, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)

		customData = append(customData, map[string]any{
			"EncryptedPassword": string(encryptedPassword),
		})
	}

	if !hasUUID {
		customData = append(customData, map[string]any{
			"UUID": uuid.New(),
		})
	}

	return instance.Build(customData...)
}
