package service

import (
	"context"

	"authapi/internal/core/domain"
	"authapi/internal/core/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo}
}

func (u *UserService) GetUserByID(ctx context.Context, id int) (domain.User, error) {
	user, err := u.repo.GetByID(ctx, id)

	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}
