package repository

import (
	"context"
	"fmt"
	"log"

	"carrental/internal/db"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type JobStore interface {
	ReservationIDsEndedBefore(ctx context.Context, status db.ReservationStatus, day db.Date) ([]int64, error)
	ReservationIDsStartedBefore(ctx context.Context, status db.ReservationStatus, day db.Date) ([]int64, error)
	UpdateReservationStatuses(ctx context.Context, ids []int64, from, to db.ReservationStatus) (int64, error)
}

type JobRepository struct {
	DB *sqlx.DB
}

func NewJobRepository(conn *sqlx.DB) *JobRepository {
	return &JobRepository{DB: conn}
}

// ReservationIDsEndedBefore returns ids of reservations in status whose end date is before day.
func (r *JobRepository) ReservationIDsEndedBefore(ctx context.Context, status db.ReservationStatus, day db.Date) ([]int64, error) {
	var ids []int64
	query := `SELECT id FROM reservations WHERE status = $1 AND end_date < $2 ORDER BY id`
	if err := r.DB.SelectContext(ctx, &ids, query, string(status), day); err != nil {
		return nil, fmt.Errorf("error querying %s reservations ended before %s: %w", status, day, err)
	}
	return ids, nil
}

// ReservationIDsStartedBefore returns ids of reservations in status whose start date is before day.
func (r *JobRepository) ReservationIDsStartedBefore(ctx context.Context, status db.ReservationStatus, day db.Date) ([]int64, error) {
	var ids []int64
	query := `SELECT id FROM reservations WHERE status = $1 AND start_date < $2 ORDER BY id`
	if err := r.DB.SelectContext(ctx, &ids, query, string(status), day); err != nil {
		return nil, fmt.Errorf("error querying %s reservations started before %s: %w", status, day, err)
	}
	return ids, nil
}

// UpdateReservationStatuses moves the given reservations from one status to
// another. Rows that left the from status in the meantime are skipped.
func (r *JobRepository) UpdateReservationStatuses(ctx context.Context, ids []int64, from, to db.ReservationStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = ANY($2) AND status = $3`
	result, err := r.DB.ExecContext(ctx, query, string(to), pq.Array(ids), string(from))
	if err != nil {
		return 0, fmt.Errorf("error updating reservation statuses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
		return 0, nil
	}
	log.Printf("Updated status for %d reservations from '%s' to '%s'", rowsAffected, from, to)
	return rowsAffected, nil
}
