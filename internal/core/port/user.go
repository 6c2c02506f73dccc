package port

import (
	"context"

	"authapi/internal/core/domain"
)

// UserRepository is the storage collaborator. Implementations return
// domain.ErrNotFound for missing rows and domain.ErrConflict when the
// unique email index rejects an insert. Create assigns the id; ids are
// positive and start at 1, so a zero id always means "no user".
type UserRepository interface {
	GetByID(ctx context.Context, id int) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
}

type UserService interface {
	GetUserByID(ctx context.Context, id int) (domain.User, error)
}
