package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"carrental/internal/db"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const reservationColumns = `id, vehicle_id, user_id, start_date, end_date, status,
	stripe_session_id, payment_status, created_at, updated_at`

// ReservationStore is the persistence contract of the availability checker
// and the reservation lifecycle.
type ReservationStore interface {
	List(ctx context.Context) ([]db.Reservation, error)
	Search(ctx context.Context, f db.ReservationFilter) ([]db.Reservation, error)
	// GetByID returns nil, nil when the reservation does not exist.
	GetByID(ctx context.Context, id int64) (*db.Reservation, error)
	// GetForUpdate is GetByID holding a row lock until the transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*db.Reservation, error)
	HasOverlap(ctx context.Context, q db.OverlapQuery) (bool, error)
	// LockVehicle locks the vehicle row and reports whether it exists.
	LockVehicle(ctx context.Context, vehicleID int64) (bool, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
	Create(ctx context.Context, r *db.Reservation) error
	Update(ctx context.Context, r *db.Reservation) error
	UpdateStatus(ctx context.Context, id int64, status db.ReservationStatus) error
	// Delete removes the reservation and returns it, or nil if it did not exist.
	Delete(ctx context.Context, id int64) (*db.Reservation, error)
	// InTx runs fn against a store bound to a single transaction.
	InTx(ctx context.Context, fn func(tx ReservationStore) error) error
}

type reservationRepository struct {
	db *sqlx.DB
	q  sqlx.ExtContext
}

func NewReservationRepository(conn *sqlx.DB) ReservationStore {
	return &reservationRepository{db: conn, q: conn}
}

func (r *reservationRepository) InTx(ctx context.Context, fn func(tx ReservationStore) error) error {
	if r.db == nil {
		// already inside a transaction
		return fn(r)
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	if err := fn(&reservationRepository{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", translate(err))
	}
	return nil
}

func (r *reservationRepository) List(ctx context.Context) ([]db.Reservation, error) {
	var out []db.Reservation
	query := `SELECT ` + reservationColumns + ` FROM reservations ORDER BY start_date, id`
	if err := sqlx.SelectContext(ctx, r.q, &out, query); err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}
	return out, nil
}

func (r *reservationRepository) Search(ctx context.Context, f db.ReservationFilter) ([]db.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if f.UserID != 0 {
		query += " AND user_id = $" + strconv.Itoa(idx)
		args = append(args, f.UserID)
		idx++
	}
	if f.VehicleID != 0 {
		query += " AND vehicle_id = $" + strconv.Itoa(idx)
		args = append(args, f.VehicleID)
		idx++
	}
	if f.StartFrom != nil {
		query += " AND start_date >= $" + strconv.Itoa(idx)
		args = append(args, *f.StartFrom)
		idx++
	}
	if f.EndUntil != nil {
		query += " AND end_date <= $" + strconv.Itoa(idx)
		args = append(args, *f.EndUntil)
		idx++
	}
	if f.Status != "" {
		query += " AND status = $" + strconv.Itoa(idx)
		args = append(args, string(f.Status))
		idx++
	}
	query += " ORDER BY start_date, id"

	var out []db.Reservation
	if err := sqlx.SelectContext(ctx, r.q, &out, query, args...); err != nil {
		return nil, fmt.Errorf("error searching reservations: %w", err)
	}
	return out, nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*db.Reservation, error) {
	return r.get(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
}

func (r *reservationRepository) GetForUpdate(ctx context.Context, id int64) (*db.Reservation, error) {
	return r.get(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1 FOR UPDATE`, id)
}

func (r *reservationRepository) get(ctx context.Context, query string, id int64) (*db.Reservation, error) {
	var res db.Reservation
	if err := sqlx.GetContext(ctx, r.q, &res, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying reservation %d: %w", id, err)
	}
	return &res, nil
}

// HasOverlap uses the inclusive test existing.start <= end AND existing.end >= start.
func (r *reservationRepository) HasOverlap(ctx context.Context, q db.OverlapQuery) (bool, error) {
	statuses := make([]string, len(q.Statuses))
	for i, s := range q.Statuses {
		statuses[i] = string(s)
	}
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE vehicle_id = $1
			  AND status = ANY($2)
			  AND start_date <= $3
			  AND end_date >= $4
			  AND ($5::bigint IS NULL OR id <> $5)
		)`
	var exclude sql.NullInt64
	if q.ExcludeID != nil {
		exclude = sql.NullInt64{Int64: *q.ExcludeID, Valid: true}
	}
	var exists bool
	err := sqlx.GetContext(ctx, r.q, &exists, query, q.VehicleID, pq.Array(statuses), q.End, q.Start, exclude)
	if err != nil {
		return false, fmt.Errorf("error checking overlapping reservations: %w", err)
	}
	return exists, nil
}

func (r *reservationRepository) LockVehicle(ctx context.Context, vehicleID int64) (bool, error) {
	var id int64
	err := sqlx.GetContext(ctx, r.q, &id, `SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`, vehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error locking vehicle %d: %w", vehicleID, err)
	}
	return true, nil
}

func (r *reservationRepository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, r.q, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID)
	if err != nil {
		return false, fmt.Errorf("error checking user %d: %w", userID, err)
	}
	return exists, nil
}

func (r *reservationRepository) Create(ctx context.Context, res *db.Reservation) error {
	now := time.Now().UTC()
	res.CreatedAt, res.UpdatedAt = now, now
	query := `
		INSERT INTO reservations (vehicle_id, user_id, start_date, end_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRowxContext(ctx, query,
		res.VehicleID, res.UserID, res.StartDate, res.EndDate, string(res.Status), res.CreatedAt, res.UpdatedAt,
	).Scan(&res.ID)
	if err != nil {
		return fmt.Errorf("error creating reservation: %w", translate(err))
	}
	return nil
}

func (r *reservationRepository) Update(ctx context.Context, res *db.Reservation) error {
	res.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE reservations
		SET vehicle_id = $2, user_id = $3, start_date = $4, end_date = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.ExecContext(ctx, query, res.ID, res.VehicleID, res.UserID, res.StartDate, res.EndDate, res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error updating reservation %d: %w", res.ID, translate(err))
	}
	return nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id int64, status db.ReservationStatus) error {
	query := `UPDATE reservations SET status = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.q.ExecContext(ctx, query, id, string(status)); err != nil {
		return fmt.Errorf("error updating status of reservation %d: %w", id, translate(err))
	}
	return nil
}

func (r *reservationRepository) Delete(ctx context.Context, id int64) (*db.Reservation, error) {
	return r.get(ctx, `DELETE FROM reservations WHERE id = $1 RETURNING `+reservationColumns, id)
}
