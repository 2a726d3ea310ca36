package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventify/internal/model"
	apperrors "eventify/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventColumns = `id, event_id, title, description, start_date, end_date,
		capacity, registered_count, image_url, status,
		organizer_id, location_id, category_id, created_at, updated_at`

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)
	ListByOrganizerID(ctx context.Context, organizerID int) ([]*model.Event, error)
	FindByID(ctx context.Context, id int) (*model.Event, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Stats(ctx context.Context) (*model.EventStats, error)
	CompleteEnded(ctx context.Context, now time.Time) (int, error)

	// Transaction methods
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error)
	Update(ctx context.Context, tx pgx.Tx, id int, params model.UpdateEventParams) (*model.Event, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.EventStatus) (*model.Event, error)
	ApplyRegistrationDelta(ctx context.Context, tx pgx.Tx, id int, delta int) error
	Delete(ctx context.Context, tx pgx.Tx, id int) error
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.EventID,
		&event.Title,
		&event.Description,
		&event.StartDate,
		&event.EndDate,
		&event.Capacity,
		&event.RegisteredCount,
		&event.ImageURL,
		&event.Status,
		&event.OrganizerID,
		&event.LocationID,
		&event.CategoryID,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := fmt.Sprintf(`
		INSERT INTO events (
			event_id, title, description, start_date, end_date,
			capacity, image_url, status, organizer_id, location_id, category_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING %s
	`, eventColumns)

	return scanEvent(r.pool.QueryRow(ctx, query,
		event.EventID, event.Title, event.Description, event.StartDate, event.EndDate,
		event.Capacity, event.ImageURL, event.Status,
		event.OrganizerID, event.LocationID, event.CategoryID,
	))
}

func (r *EventRepositoryImpl) List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	wheres := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.Search != nil {
		wheres = append(wheres, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+*filter.Search+"%")
		argPos++
	}
	if filter.Status != nil {
		wheres = append(wheres, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.CategoryID != nil {
		wheres = append(wheres, fmt.Sprintf("category_id = $%d", argPos))
		args = append(args, *filter.CategoryID)
		argPos++
	}
	if filter.LocationID != nil {
		wheres = append(wheres, fmt.Sprintf("location_id = $%d", argPos))
		args = append(args, *filter.LocationID)
		argPos++
	}
	if filter.From != nil {
		wheres = append(wheres, fmt.Sprintf("start_date >= $%d", argPos))
		args = append(args, *filter.From)
		argPos++
	}
	if filter.To != nil {
		wheres = append(wheres, fmt.Sprintf("end_date <= $%d", argPos))
		args = append(args, *filter.To)
		argPos++
	}

	whereClause := ""
	if len(wheres) > 0 {
		whereClause = "WHERE " + strings.Join(wheres, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		%s
		ORDER BY created_at DESC
	`, eventColumns, whereClause)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepositoryImpl) ListByOrganizerID(ctx context.Context, organizerID int) ([]*model.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE organizer_id = $1
		ORDER BY created_at DESC
	`, eventColumns)

	rows, err := r.pool.Query(ctx, query, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE id = $1
	`, eventColumns)

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

func (r *EventRepositoryImpl) FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE event_id = $1
	`, eventColumns)

	event, err := scanEvent(r.pool.QueryRow(ctx, query, eventID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

func (r *EventRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE id = $1
		FOR UPDATE
	`, eventColumns)

	event, err := scanEvent(tx.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, tx pgx.Tx, id int, params model.UpdateEventParams) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	appendSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.Title != nil {
		appendSet("title", *params.Title)
	}
	if params.Description != nil {
		appendSet("description", *params.Description)
	}
	if params.StartDate != nil {
		appendSet("start_date", *params.StartDate)
	}
	if params.EndDate != nil {
		appendSet("end_date", *params.EndDate)
	}
	if params.Capacity != nil {
		appendSet("capacity", *params.Capacity)
	}
	if params.ImageURL != nil {
		appendSet("image_url", *params.ImageURL)
	}
	if params.LocationID != nil {
		appendSet("location_id", *params.LocationID)
	}
	if params.CategoryID != nil {
		appendSet("category_id", *params.CategoryID)
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add updated_at
	sets = append(sets, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now().UTC())
	argPos++

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), argPos, eventColumns)

	event, err := scanEvent(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

func (r *EventRepositoryImpl) UpdateStatus(ctx context.Context, tx pgx.Tx, id int, status model.EventStatus) (*model.Event, error) {
	query := fmt.Sprintf(`
		UPDATE events
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING %s
	`, eventColumns)

	event, err := scanEvent(tx.QueryRow(ctx, query, status, time.Now().UTC(), id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

// ApplyRegistrationDelta 調整 registered_count，條件式 UPDATE 保證
// 結果永遠落在 [0, capacity]。呼叫前必須先以 FindByIDWithLock 鎖定該列。
func (r *EventRepositoryImpl) ApplyRegistrationDelta(ctx context.Context, tx pgx.Tx, id int, delta int) error {
	query := `
		UPDATE events
		SET registered_count = registered_count + $1, updated_at = $2
		WHERE id = $3
		  AND registered_count + $1 >= 0
		  AND registered_count + $1 <= capacity
	`

	result, err := tx.Exec(ctx, query, delta, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		if delta > 0 {
			return apperrors.ErrEventFull
		}
		// 遞減不可能低於 0，除非計數已經損壞
		return apperrors.ErrCounterConsistency
	}

	return nil
}

func (r *EventRepositoryImpl) Delete(ctx context.Context, tx pgx.Tx, id int) error {
	query := `
		DELETE FROM events
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}

func (r *EventRepositoryImpl) Stats(ctx context.Context) (*model.EventStats, error) {
	var stats model.EventStats

	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = $1 AND end_date >= $2),
		       COALESCE(AVG(CASE WHEN capacity > 0 THEN registered_count * 100.0 / capacity END), 0)
		FROM events
	`

	err := r.pool.QueryRow(ctx, query, model.EventStatusPublished, time.Now().UTC()).Scan(
		&stats.TotalEvents,
		&stats.ActiveEvents,
		&stats.AverageOccupancy,
	)
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM registrations`).Scan(&stats.TotalRegistrations)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// CompleteEnded 將已過結束時間的 published 活動批次轉為 completed
func (r *EventRepositoryImpl) CompleteEnded(ctx context.Context, now time.Time) (int, error) {
	query := `
		UPDATE events
		SET status = $1, updated_at = $2
		WHERE status = $3 AND end_date < $2
	`

	result, err := r.pool.Exec(ctx, query, model.EventStatusCompleted, now.UTC(), model.EventStatusPublished)
	if err != nil {
		return 0, err
	}

	return int(result.RowsAffected()), nil
}
