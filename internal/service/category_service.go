package service

import (
	"context"

	"eventify/internal/model"
	"eventify/internal/repository"
	apperrors "eventify/pkg/app_errors"
)

type CategoryService interface {
	List(ctx context.Context) ([]*model.Category, error)
	GetByID(ctx context.Context, id int) (*model.Category, error)
	Create(ctx context.Context, category *model.Category, principal model.Principal) (*model.Category, error)
	Update(ctx context.Context, id int, params model.UpdateCategoryParams, principal model.Principal) (*model.Category, error)
	Delete(ctx context.Context, id int, principal model.Principal) error
}

type CategoryServiceImpl struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &CategoryServiceImpl{repo: repo}
}

func (s *CategoryServiceImpl) List(ctx context.Context) ([]*model.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryServiceImpl) GetByID(ctx context.Context, id int) (*model.Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CategoryServiceImpl) Create(ctx context.Context, category *model.Category, principal model.Principal) (*model.Category, error) {
	if principal.Role != model.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	if category.Name == "" {
		return nil, apperrors.ErrInvalidInput
	}
	return s.repo.Create(ctx, category)
}

func (s *CategoryServiceImpl) Update(ctx context.Context, id int, params model.UpdateCategoryParams, principal model.Principal) (*model.Category, error) {
	if principal.Role != model.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	return s.repo.Update(ctx, id, params)
}

func (s *CategoryServiceImpl) Delete(ctx context.Context, id int, principal model.Principal) error {
	if principal.Role != model.RoleAdmin {
		return apperrors.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
