package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carrental/internal/db"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const vehicleColumns = `id, name, brand, model, year, plate_number, color, daily_rate, is_available, location`

type VehicleStore interface {
	List(ctx context.Context) ([]db.Vehicle, error)
	// GetByID returns nil, nil when the vehicle does not exist.
	GetByID(ctx context.Context, id int64) (*db.Vehicle, error)
	// ListAvailable returns bookable vehicles at location with no reservation
	// in one of statuses overlapping [start, end].
	ListAvailable(ctx context.Context, location string, start, end db.Date, statuses []db.ReservationStatus) ([]db.Vehicle, error)
	Create(ctx context.Context, v *db.Vehicle) error
	Update(ctx context.Context, v *db.Vehicle) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type VehicleRepository struct {
	DB *sqlx.DB
}

func NewVehicleRepository(conn *sqlx.DB) *VehicleRepository {
	return &VehicleRepository{DB: conn}
}

func (r *VehicleRepository) List(ctx context.Context) ([]db.Vehicle, error) {
	var vehicles []db.Vehicle
	if err := r.DB.SelectContext(ctx, &vehicles, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY id`); err != nil {
		return nil, fmt.Errorf("error listing vehicles: %w", err)
	}
	return vehicles, nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, id int64) (*db.Vehicle, error) {
	var v db.Vehicle
	err := r.DB.GetContext(ctx, &v, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying vehicle %d: %w", id, err)
	}
	return &v, nil
}

func (r *VehicleRepository) ListAvailable(ctx context.Context, location string, start, end db.Date, statuses []db.ReservationStatus) ([]db.Vehicle, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles v
		WHERE v.is_available
		  AND LOWER(v.location) = LOWER($1)
		  AND NOT EXISTS (
			SELECT 1 FROM reservations r
			WHERE r.vehicle_id = v.id
			  AND r.status = ANY($2)
			  AND r.start_date <= $3
			  AND r.end_date >= $4
		  )
		ORDER BY v.daily_rate, v.id`
	var vehicles []db.Vehicle
	if err := r.DB.SelectContext(ctx, &vehicles, query, location, pq.Array(names), end, start); err != nil {
		return nil, fmt.Errorf("error searching available vehicles: %w", err)
	}
	return vehicles, nil
}

func (r *VehicleRepository) Create(ctx context.Context, v *db.Vehicle) error {
	query := `
		INSERT INTO vehicles (name, brand, model, year, plate_number, color, daily_rate, is_available, location)
		VALUES (:name, :brand, :model, :year, :plate_number, :color, :daily_rate, :is_available, :location)
		RETURNING id`
	rows, err := r.DB.NamedQueryContext(ctx, query, v)
	if err != nil {
		return fmt.Errorf("error creating vehicle: %w", translate(err))
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&v.ID); err != nil {
			return fmt.Errorf("error scanning vehicle id: %w", err)
		}
	}
	return rows.Err()
}

func (r *VehicleRepository) Update(ctx context.Context, v *db.Vehicle) error {
	query := `
		UPDATE vehicles
		SET name = :name, brand = :brand, model = :model, year = :year, plate_number = :plate_number,
			color = :color, daily_rate = :daily_rate, is_available = :is_available, location = :location
		WHERE id = :id`
	if _, err := r.DB.NamedExecContext(ctx, query, v); err != nil {
		return fmt.Errorf("error updating vehicle %d: %w", v.ID, translate(err))
	}
	return nil
}

func (r *VehicleRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("error deleting vehicle %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
