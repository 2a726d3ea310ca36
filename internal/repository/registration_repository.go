package repository

import (
	"context"
	"errors"
	"time"

	"eventify/internal/model"
	apperrors "eventify/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const registrationColumns = `id, user_id, event_id, status, registration_date, notes, updated_at`

// uniqueViolation PostgreSQL unique constraint error code
const uniqueViolation = "23505"

type RegistrationRepository interface {
	FindByID(ctx context.Context, id int) (*model.Registration, error)
	ListByUserID(ctx context.Context, userID int) ([]*model.Registration, error)
	ListByEventID(ctx context.Context, eventID int) ([]*model.Registration, error)
	CountActiveByEventID(ctx context.Context, eventID int) (int, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, registration *model.Registration) (*model.Registration, error)
	ExistsByUserAndEvent(ctx context.Context, tx pgx.Tx, userID, eventID int) (bool, error)
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Registration, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.RegistrationStatus, notes *string) (*model.Registration, error)
}

type RegistrationRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepository(pool *pgxpool.Pool) RegistrationRepository {
	return &RegistrationRepositoryImpl{
		pool: pool,
	}
}

func scanRegistration(row pgx.Row) (*model.Registration, error) {
	var registration model.Registration
	err := row.Scan(
		&registration.ID,
		&registration.UserID,
		&registration.EventID,
		&registration.Status,
		&registration.RegistrationDate,
		&registration.Notes,
		&registration.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

// Create 寫入報名紀錄。(user_id, event_id) 的唯一索引在儲存層
// 擋住重複報名的競態，違反時回傳 ErrAlreadyRegistered。
func (r *RegistrationRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, registration *model.Registration) (*model.Registration, error) {
	query := `
		INSERT INTO registrations (user_id, event_id, status, registration_date, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + registrationColumns

	created, err := scanRegistration(tx.QueryRow(ctx, query,
		registration.UserID, registration.EventID, registration.Status,
		registration.RegistrationDate, registration.Notes,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperrors.ErrAlreadyRegistered
		}
		return nil, err
	}

	return created, nil
}

func (r *RegistrationRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE id = $1
	`

	registration, err := scanRegistration(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, err
	}

	return registration, nil
}

func (r *RegistrationRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE id = $1
		FOR UPDATE
	`

	registration, err := scanRegistration(tx.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, err
	}

	return registration, nil
}

func (r *RegistrationRepositoryImpl) ListByUserID(ctx context.Context, userID int) ([]*model.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE user_id = $1
		ORDER BY registration_date DESC
	`

	return r.list(ctx, query, userID)
}

func (r *RegistrationRepositoryImpl) ListByEventID(ctx context.Context, eventID int) ([]*model.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE event_id = $1
		ORDER BY registration_date DESC
	`

	return r.list(ctx, query, eventID)
}

func (r *RegistrationRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]*model.Registration, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	registrations := make([]*model.Registration, 0)
	for rows.Next() {
		registration, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		registrations = append(registrations, registration)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return registrations, nil
}

// ExistsByUserAndEvent 任何狀態的報名紀錄都算，取消過的也不能重新報名
func (r *RegistrationRepositoryImpl) ExistsByUserAndEvent(ctx context.Context, tx pgx.Tx, userID, eventID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM registrations
			WHERE user_id = $1 AND event_id = $2
		)
	`

	var exists bool
	err := tx.QueryRow(ctx, query, userID, eventID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// CountActiveByEventID 計算非 cancelled 的報名數，供一致性驗證使用
func (r *RegistrationRepositoryImpl) CountActiveByEventID(ctx context.Context, eventID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM registrations
		WHERE event_id = $1 AND status != $2
	`

	var count int
	err := r.pool.QueryRow(ctx, query, eventID, model.RegistrationStatusCancelled).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *RegistrationRepositoryImpl) UpdateStatus(
	ctx context.Context,
	tx pgx.Tx,
	id int,
	status model.RegistrationStatus,
	notes *string,
) (*model.Registration, error) {
	query := `
		UPDATE registrations
		SET status = $1, notes = COALESCE($2, notes), updated_at = $3
		WHERE id = $4
		RETURNING ` + registrationColumns

	registration, err := scanRegistration(tx.QueryRow(ctx, query, status, notes, time.Now().UTC(), id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, err
	}

	return registration, nil
}
