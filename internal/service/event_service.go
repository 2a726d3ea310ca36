package service

import (
	"context"

	"eventify/internal/cache"
	"eventify/internal/model"
	"eventify/internal/repository"
	apperrors "eventify/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventService interface {
	List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)
	GetByID(ctx context.Context, id int) (*model.Event, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	GetMyEvents(ctx context.Context, organizerID int) ([]*model.Event, error)
	Create(ctx context.Context, event *model.Event, organizerID int) (*model.Event, error)
	Update(ctx context.Context, id int, params model.UpdateEventParams, principal model.Principal) (*model.Event, error)
	Delete(ctx context.Context, id int, principal model.Principal) error
	// Publish draft -> published，開放報名
	Publish(ctx context.Context, id int, principal model.Principal) (*model.Event, error)
	// Cancel 取消活動。不會連動取消既有報名，也不歸零計數
	Cancel(ctx context.Context, id int, principal model.Principal) (*model.Event, error)
	Complete(ctx context.Context, id int, principal model.Principal) (*model.Event, error)
	GetStats(ctx context.Context) (*model.EventStats, error)
}

type EventServiceImpl struct {
	pool         *pgxpool.Pool
	repo         repository.EventRepository
	locationRepo repository.LocationRepository
	categoryRepo repository.CategoryRepository
	statsCache   cache.EventStatsCache
}

func NewEventService(
	pool *pgxpool.Pool,
	repo repository.EventRepository,
	locationRepo repository.LocationRepository,
	categoryRepo repository.CategoryRepository,
	statsCache cache.EventStatsCache,
) EventService {
	return &EventServiceImpl{
		pool:         pool,
		repo:         repo,
		locationRepo: locationRepo,
		categoryRepo: categoryRepo,
		statsCache:   statsCache,
	}
}

func (s *EventServiceImpl) List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	return s.repo.List(ctx, filter)
}

func (s *EventServiceImpl) GetByID(ctx context.Context, id int) (*model.Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *EventServiceImpl) GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	return s.repo.FindByEventID(ctx, eventID)
}

func (s *EventServiceImpl) GetMyEvents(ctx context.Context, organizerID int) ([]*model.Event, error) {
	return s.repo.ListByOrganizerID(ctx, organizerID)
}

func (s *EventServiceImpl) Create(ctx context.Context, event *model.Event, organizerID int) (*model.Event, error) {
	if event.Capacity <= 0 {
		return nil, apperrors.ErrInvalidInput
	}
	if !event.EndDate.After(event.StartDate) {
		return nil, apperrors.ErrInvalidInput
	}

	if _, err := s.locationRepo.FindByID(ctx, event.LocationID); err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.FindByID(ctx, event.CategoryID); err != nil {
		return nil, err
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	event.OrganizerID = organizerID
	event.Status = model.EventStatusDraft
	event.RegisteredCount = 0

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, err
	}

	_ = s.statsCache.Invalidate(ctx)

	return created, nil
}

func (s *EventServiceImpl) Update(ctx context.Context, id int, params model.UpdateEventParams, principal model.Principal) (*model.Event, error) {
	if params.LocationID != nil {
		if _, err := s.locationRepo.FindByID(ctx, *params.LocationID); err != nil {
			return nil, err
		}
	}
	if params.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *params.CategoryID); err != nil {
			return nil, err
		}
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	event, err := s.repo.FindByIDWithLock(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if !principal.CanManageEvent(event) {
		return nil, apperrors.ErrForbidden
	}

	// 容量不能降到已報名人數以下，否則 registered_count <= capacity 會被打破
	if params.Capacity != nil && *params.Capacity < event.RegisteredCount {
		return nil, apperrors.ErrCapacityBelowRegistered
	}

	updated, err := s.repo.Update(ctx, tx, id, params)
	if err != nil {
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, err
	}

	// 容量變動會影響平均使用率
	_ = s.statsCache.Invalidate(ctx)

	return updated, nil
}

func (s *EventServiceImpl) Delete(ctx context.Context, id int, principal model.Principal) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	event, err := s.repo.FindByIDWithLock(ctx, tx, id)
	if err != nil {
		return err
	}

	if !principal.CanManageEvent(event) {
		return apperrors.ErrForbidden
	}

	if event.RegisteredCount > 0 {
		return apperrors.ErrEventHasRegistrations
	}

	err = s.repo.Delete(ctx, tx, id)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	_ = s.statsCache.Invalidate(ctx)

	return nil
}

func (s *EventServiceImpl) Publish(ctx context.Context, id int, principal model.Principal) (*model.Event, error) {
	return s.applyAction(ctx, id, model.EventActionPublish, principal)
}

func (s *EventServiceImpl) Cancel(ctx context.Context, id int, principal model.Principal) (*model.Event, error) {
	return s.applyAction(ctx, id, model.EventActionCancel, principal)
}

func (s *EventServiceImpl) Complete(ctx context.Context, id int, principal model.Principal) (*model.Event, error) {
	return s.applyAction(ctx, id, model.EventActionComplete, principal)
}

// applyAction 所有狀態轉換走同一條路：鎖列、授權、查轉換表、寫入
func (s *EventServiceImpl) applyAction(ctx context.Context, id int, action model.EventAction, principal model.Principal) (*model.Event, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	event, err := s.repo.FindByIDWithLock(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if !principal.CanManageEvent(event) {
		return nil, apperrors.ErrForbidden
	}

	next, ok := event.Status.Apply(action)
	if !ok {
		return nil, apperrors.ErrInvalidStatusTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, tx, id, next)
	if err != nil {
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, err
	}

	// 狀態轉換會改變 active 計數
	_ = s.statsCache.Invalidate(ctx)

	return updated, nil
}

func (s *EventServiceImpl) GetStats(ctx context.Context) (*model.EventStats, error) {
	cached, err := s.statsCache.Get(ctx)
	if err == nil && cached != nil {
		return cached, nil
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	// 快取寫入失敗不影響回應
	_ = s.statsCache.Set(ctx, stats)

	return stats, nil
}
