package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carrental/internal/db"

	"github.com/jmoiron/sqlx"
)

type PaymentStore interface {
	SetCheckoutSession(ctx context.Context, reservationID int64, sessionID, paymentStatus string) error
	// GetByStripeSessionID returns nil, nil when no reservation carries the session.
	GetByStripeSessionID(ctx context.Context, sessionID string) (*db.Reservation, error)
	UpdatePaymentStatusBySessionID(ctx context.Context, sessionID, paymentStatus string) error
}

type StripeRepository struct {
	DB *sqlx.DB
}

func NewStripeRepository(conn *sqlx.DB) *StripeRepository {
	return &StripeRepository{DB: conn}
}

func (r *StripeRepository) SetCheckoutSession(ctx context.Context, reservationID int64, sessionID, paymentStatus string) error {
	query := `
		UPDATE reservations
		SET stripe_session_id = $2, payment_status = $3, updated_at = NOW()
		WHERE id = $1`
	if _, err := r.DB.ExecContext(ctx, query, reservationID, sessionID, paymentStatus); err != nil {
		return fmt.Errorf("error storing checkout session for reservation %d: %w", reservationID, err)
	}
	return nil
}

func (r *StripeRepository) GetByStripeSessionID(ctx context.Context, sessionID string) (*db.Reservation, error) {
	var res db.Reservation
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE stripe_session_id = $1`
	if err := r.DB.GetContext(ctx, &res, query, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying reservation by session %s: %w", sessionID, err)
	}
	return &res, nil
}

func (r *StripeRepository) UpdatePaymentStatusBySessionID(ctx context.Context, sessionID, paymentStatus string) error {
	query := `UPDATE reservations SET payment_status = $2, updated_at = NOW() WHERE stripe_session_id = $1`
	if _, err := r.DB.ExecContext(ctx, query, sessionID, paymentStatus); err != nil {
		return fmt.Errorf("error updating payment status for session %s: %w", sessionID, err)
	}
	return nil
}
