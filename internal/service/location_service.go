package service

import (
	"context"

	"eventify/internal/model"
	"eventify/internal/repository"
	apperrors "eventify/pkg/app_errors"
)

type LocationService interface {
	List(ctx context.Context) ([]*model.Location, error)
	GetByID(ctx context.Context, id int) (*model.Location, error)
	Create(ctx context.Context, location *model.Location, principal model.Principal) (*model.Location, error)
	Update(ctx context.Context, id int, params model.UpdateLocationParams, principal model.Principal) (*model.Location, error)
	Delete(ctx context.Context, id int, principal model.Principal) error
}

type LocationServiceImpl struct {
	repo repository.LocationRepository
}

func NewLocationService(repo repository.LocationRepository) LocationService {
	return &LocationServiceImpl{repo: repo}
}

func (s *LocationServiceImpl) List(ctx context.Context) ([]*model.Location, error) {
	return s.repo.List(ctx)
}

func (s *LocationServiceImpl) GetByID(ctx context.Context, id int) (*model.Location, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *LocationServiceImpl) Create(ctx context.Context, location *model.Location, principal model.Principal) (*model.Location, error) {
	if principal.Role != model.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	if location.Name == "" {
		return nil, apperrors.ErrInvalidInput
	}
	return s.repo.Create(ctx, location)
}

func (s *LocationServiceImpl) Update(ctx context.Context, id int, params model.UpdateLocationParams, principal model.Principal) (*model.Location, error) {
	if principal.Role != model.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	return s.repo.Update(ctx, id, params)
}

func (s *LocationServiceImpl) Delete(ctx context.Context, id int, principal model.Principal) error {
	if principal.Role != model.RoleAdmin {
		return apperrors.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
