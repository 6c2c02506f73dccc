package memory

import (
	"context"
	"strings"
	"sync"

	"authapi/internal/core/domain"
	"authapi/internal/core/port"
)

// userRepository keeps users in process memory. Email uniqueness is
// checked and the row inserted under one lock, so concurrent signups for
// the same email produce exactly one account.
type userRepository struct {
	mu      sync.RWMutex
	nextID  int
	byID    map[int]domain.User
	byEmail map[string]int
}

func NewUserRepository() port.UserRepository {
	return &userRepository{
		nextID:  1,
		byID:    make(map[int]domain.User),
		byEmail: make(map[string]int),
	}
}

func (r *userRepository) GetByID(ctx context.Context, id int) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]

	if !ok {
		return domain.User{}, domain.ErrNotFound
	}

	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[emailKey(email)]

	if !ok {
		return domain.User{}, domain.ErrNotFound
	}

	return r.byID[id], nil
}

func (r *userRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := emailKey(user.Email)

	if _, exists := r.byEmail[key]; exists {
		return domain.User{}, domain.ErrConflict
	}

	user.ID = r.nextID
	r.nextID++

	r.byID[user.ID] = user
	r.byEmail[key] = user.ID

	return user, nil
}

// Exact match, like the sql adapters; only surrounding whitespace is ignored.
func emailKey(email string) string {
	return strings.TrimSpace(email)
}
