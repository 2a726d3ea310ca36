package service

import (
	"context"
	"time"

	"eventify/internal/model"
	"eventify/internal/repository"
	apperrors "eventify/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RegistrationService interface {
	// Register 報名活動，建立報名紀錄並同交易遞增活動計數
	Register(ctx context.Context, eventID int, userID int, notes *string) (*model.Registration, error)
	GetMyRegistrations(ctx context.Context, userID int) ([]*model.Registration, error)
	GetByID(ctx context.Context, id int, principal model.Principal) (*model.Registration, error)
	GetEventRegistrations(ctx context.Context, eventID int, principal model.Principal) ([]*model.Registration, error)
	// CancelOwn 報名者本人取消報名，僅限本人
	CancelOwn(ctx context.Context, id int, userID int) error
	// SetStatus organizer/admin 設定任意報名狀態
	SetStatus(ctx context.Context, id int, status model.RegistrationStatus, notes *string, principal model.Principal) (*model.Registration, error)
}

type RegistrationServiceImpl struct {
	pool            *pgxpool.Pool
	repository      repository.RegistrationRepository
	eventRepository repository.EventRepository
}

func NewRegistrationService(
	pool *pgxpool.Pool,
	registrationRepository repository.RegistrationRepository,
	eventRepository repository.EventRepository,
) RegistrationService {
	return &RegistrationServiceImpl{
		pool:            pool,
		repository:      registrationRepository,
		eventRepository: eventRepository,
	}
}

// Register 的檢查順序固定：活動存在 → published → 未結束 → 未重複 → 有名額。
// 整段在鎖住活動列的交易內執行，名額檢查與寫入之間不會被其他報名插隊。
func (s *RegistrationServiceImpl) Register(ctx context.Context, eventID int, userID int, notes *string) (*model.Registration, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	event, err := s.eventRepository.FindByIDWithLock(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if event.Status != model.EventStatusPublished {
		return nil, apperrors.ErrEventNotPublished
	}

	if event.HasEnded(now) {
		return nil, apperrors.ErrEventEnded
	}

	// 任何狀態的舊紀錄都擋，取消過也不能重新報名
	exists, err := s.repository.ExistsByUserAndEvent(ctx, tx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrAlreadyRegistered
	}

	if event.IsFull() {
		return nil, apperrors.ErrEventFull
	}

	registration := &model.Registration{
		UserID:           userID,
		EventID:          eventID,
		Status:           model.RegistrationStatusConfirmed,
		RegistrationDate: now,
		Notes:            notes,
	}

	created, err := s.repository.Create(ctx, tx, registration)
	if err != nil {
		return nil, err
	}

	err = s.eventRepository.ApplyRegistrationDelta(ctx, tx, event.ID, 1)
	if err != nil {
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (s *RegistrationServiceImpl) GetMyRegistrations(ctx context.Context, userID int) ([]*model.Registration, error) {
	return s.repository.ListByUserID(ctx, userID)
}

func (s *RegistrationServiceImpl) GetByID(ctx context.Context, id int, principal model.Principal) (*model.Registration, error) {
	registration, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepository.FindByID(ctx, registration.EventID)
	if err != nil {
		return nil, err
	}

	if !principal.CanViewRegistration(registration, event) {
		return nil, apperrors.ErrForbidden
	}

	return registration, nil
}

func (s *RegistrationServiceImpl) GetEventRegistrations(ctx context.Context, eventID int, principal model.Principal) ([]*model.Registration, error) {
	event, err := s.eventRepository.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if !principal.CanManageEvent(event) {
		return nil, apperrors.ErrForbidden
	}

	return s.repository.ListByEventID(ctx, eventID)
}

// CancelOwn 身分綁定操作，admin 也不能代替他人走這條路徑
func (s *RegistrationServiceImpl) CancelOwn(ctx context.Context, id int, userID int) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	registration, err := s.repository.FindByIDWithLock(ctx, tx, id)
	if err != nil {
		return err
	}

	if registration.UserID != userID {
		return apperrors.ErrForbidden
	}

	if registration.Status == model.RegistrationStatusCancelled {
		return apperrors.ErrAlreadyCancelled
	}

	event, err := s.eventRepository.FindByIDWithLock(ctx, tx, registration.EventID)
	if err != nil {
		return err
	}

	if event.HasEnded(time.Now().UTC()) {
		return apperrors.ErrEventEnded
	}

	_, err = s.repository.UpdateStatus(ctx, tx, id, model.RegistrationStatusCancelled, nil)
	if err != nil {
		return err
	}

	err = s.eventRepository.ApplyRegistrationDelta(ctx, tx, event.ID,
		model.CounterDelta(registration.Status, model.RegistrationStatusCancelled))
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// SetStatus 依交易內讀到的舊狀態計算計數增減，避免 lost update
func (s *RegistrationServiceImpl) SetStatus(
	ctx context.Context,
	id int,
	status model.RegistrationStatus,
	notes *string,
	principal model.Principal,
) (*model.Registration, error) {
	if !status.IsValid() {
		return nil, apperrors.ErrInvalidInput
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	registration, err := s.repository.FindByIDWithLock(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepository.FindByIDWithLock(ctx, tx, registration.EventID)
	if err != nil {
		return nil, err
	}

	if !principal.CanManageEvent(event) {
		return nil, apperrors.ErrForbidden
	}

	updated, err := s.repository.UpdateStatus(ctx, tx, id, status, notes)
	if err != nil {
		return nil, err
	}

	if delta := model.CounterDelta(registration.Status, status); delta != 0 {
		err = s.eventRepository.ApplyRegistrationDelta(ctx, tx, event.ID, delta)
		if err != nil {
			return nil, err
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, err
	}

	return updated, nil
}
