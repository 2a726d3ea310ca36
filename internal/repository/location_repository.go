package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventify/internal/model"
	apperrors "eventify/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LocationRepository interface {
	Create(ctx context.Context, location *model.Location) (*model.Location, error)
	List(ctx context.Context) ([]*model.Location, error)
	FindByID(ctx context.Context, id int) (*model.Location, error)
	Update(ctx context.Context, id int, params model.UpdateLocationParams) (*model.Location, error)
	Delete(ctx context.Context, id int) error
}

type LocationRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewLocationRepository(pool *pgxpool.Pool) LocationRepository {
	return &LocationRepositoryImpl{
		pool: pool,
	}
}

func (r *LocationRepositoryImpl) Create(ctx context.Context, location *model.Location) (*model.Location, error) {
	query := `
		INSERT INTO locations (name, address, city, capacity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, address, city, capacity, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		location.Name, location.Address, location.City, location.Capacity,
	).Scan(
		&location.ID,
		&location.Name,
		&location.Address,
		&location.City,
		&location.Capacity,
		&location.CreatedAt,
		&location.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return location, nil
}

func (r *LocationRepositoryImpl) List(ctx context.Context) ([]*model.Location, error) {
	query := `
		SELECT id, name, address, city, capacity, created_at, updated_at
		FROM locations
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := make([]*model.Location, 0)
	for rows.Next() {
		var location model.Location
		err := rows.Scan(
			&location.ID,
			&location.Name,
			&location.Address,
			&location.City,
			&location.Capacity,
			&location.CreatedAt,
			&location.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		locations = append(locations, &location)
	}
	return locations, nil
}

func (r *LocationRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Location, error) {
	query := `
		SELECT id, name, address, city, capacity, created_at, updated_at
		FROM locations
		WHERE id = $1
	`

	var location model.Location
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&location.ID,
		&location.Name,
		&location.Address,
		&location.City,
		&location.Capacity,
		&location.CreatedAt,
		&location.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrLocationNotFound
		}
		return nil, err
	}

	return &location, nil
}

func (r *LocationRepositoryImpl) Update(ctx context.Context, id int, params model.UpdateLocationParams) (*model.Location, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	if params.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argPos))
		args = append(args, *params.Name)
		argPos++
	}
	if params.Address != nil {
		sets = append(sets, fmt.Sprintf("address = $%d", argPos))
		args = append(args, *params.Address)
		argPos++
	}
	if params.City != nil {
		sets = append(sets, fmt.Sprintf("city = $%d", argPos))
		args = append(args, *params.City)
		argPos++
	}
	if params.Capacity != nil {
		sets = append(sets, fmt.Sprintf("capacity = $%d", argPos))
		args = append(args, *params.Capacity)
		argPos++
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
		UPDATE locations
		SET %s
		WHERE id = $%d
		RETURNING id, name, address, city, capacity, created_at, updated_at
	`, strings.Join(sets, ", "), argPos)

	var location model.Location
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&location.ID,
		&location.Name,
		&location.Address,
		&location.City,
		&location.Capacity,
		&location.CreatedAt,
		&location.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrLocationNotFound
		}
		return nil, err
	}

	return &location, nil
}

func (r *LocationRepositoryImpl) Delete(ctx context.Context, id int) error {
	query := `
		DELETE FROM locations
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrLocationNotFound
	}

	return nil
}
