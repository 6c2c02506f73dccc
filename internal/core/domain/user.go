package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	Admin   UserRole = "admin"
	Profile UserRole = "profile"
)

type User struct {
	ID                int
	UUID              uuid.UUID
	Name              string `validate:"max=100"`
	Email             string `validate:"required,email,max=255"`
	EncryptedPassword string `validate:"required"`
	Role              UserRole
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Identity is the authenticated view of a user. It never carries the
// password hash.
type Identity struct {
	ID    int
	UUID  uuid.UUID
	Email string
}

func (u User) Identity() Identity {
	return Identity{
		ID:    u.ID,
		UUID:  u.UUID,
		Email: u.Email,
	}
}
