package repository

import (
	"context"
	"fmt"

	"carrental/internal/db"

	"github.com/jmoiron/sqlx"
)

// ReservationExportRow is a reservation joined with the names an operator
// needs to read it.
type ReservationExportRow struct {
	db.Reservation
	VehicleName string `db:"vehicle_name"`
	PlateNumber string `db:"plate_number"`
	Username    string `db:"username"`
}

type ExportStore interface {
	ListReservationsInWindow(ctx context.Context, start, end db.Date) ([]ReservationExportRow, error)
}

type AdminRepository struct {
	DB *sqlx.DB
}

func NewAdminRepository(conn *sqlx.DB) *AdminRepository {
	return &AdminRepository{DB: conn}
}

// ListReservationsInWindow returns reservations of any status overlapping [start, end].
func (r *AdminRepository) ListReservationsInWindow(ctx context.Context, start, end db.Date) ([]ReservationExportRow, error) {
	query := `
	SELECT
		r.id, r.vehicle_id, r.user_id, r.start_date, r.end_date, r.status,
		r.stripe_session_id, r.payment_status, r.created_at, r.updated_at,
		v.name AS vehicle_name, v.plate_number, u.username
	FROM reservations r
	JOIN vehicles v ON v.id = r.vehicle_id
	JOIN users u ON u.id = r.user_id
	WHERE r.start_date <= $1 AND r.end_date >= $2
	ORDER BY r.start_date, r.id`

	var rows []ReservationExportRow
	if err := r.DB.SelectContext(ctx, &rows, query, end, start); err != nil {
		return nil, fmt.Errorf("error listing reservations for export: %w", err)
	}
	return rows, nil
}
