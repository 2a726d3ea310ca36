package service

import (
	"context"

	"eventify/internal/model"
	"eventify/internal/repository"
	apperrors "eventify/pkg/app_errors"
)

type UserService interface {
	List(ctx context.Context, principal model.Principal) ([]*model.User, error)
	GetByID(ctx context.Context, id int, principal model.Principal) (*model.User, error)
	// SetRole admin 指派角色
	SetRole(ctx context.Context, id int, role model.Role, principal model.Principal) (*model.User, error)
	Delete(ctx context.Context, id int, principal model.Principal) error
}

type UserServiceImpl struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &UserServiceImpl{repo: repo}
}

func (s *UserServiceImpl) List(ctx context.Context, principal model.Principal) ([]*model.User, error) {
	if principal.Role != model.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	return s.repo.List(ctx)
}

// GetByID 本人或 admin 可查
func (s *UserServiceImpl) GetByID(ctx context.Context, id int, principal model.Principal) (*model.User, error) {
	if principal.UserID != id && principal.Role != model.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	return s.repo.FindByID(ctx, id)
}

func (s *UserServiceImpl) SetRole(ctx context.Context, id int, role model.Role, principal model.Principal) (*model.User, error) {
	if principal.Role != model.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	if !role.IsValid() {
		return nil, apperrors.ErrInvalidInput
	}
	return s.repo.Update(ctx, id, repository.UpdateUserParams{Role: &role})
}

func (s *UserServiceImpl) Delete(ctx context.Context, id int, principal model.Principal) error {
	if principal.Role != model.RoleAdmin {
		return apperrors.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
