package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"carrental/internal/db"
	"carrental/internal/entities"
	apperrors "carrental/internal/errors"
	"carrental/internal/repository"

	"github.com/google/uuid"
)

// PaymentService charges reservations through a PaymentProvider and
// confirms them once the provider reports the payment.
type PaymentService struct {
	reservations *ReservationService
	vehicles     repository.VehicleStore
	users        repository.UserStore
	payments     repository.PaymentStore
	provider     PaymentProvider
	currency     string
}

func NewPaymentService(reservations *ReservationService, vehicles repository.VehicleStore, users repository.UserStore, payments repository.PaymentStore, provider PaymentProvider, currency string) *PaymentService {
	return &PaymentService{
		reservations: reservations,
		vehicles:     vehicles,
		users:        users,
		payments:     payments,
		provider:     provider,
		currency:     strings.ToLower(currency),
	}
}

// Quote returns the amount due: the vehicle's daily rate times the rental days.
func Quote(res db.Reservation, vehicle db.Vehicle) int64 {
	return vehicle.DailyRate * int64(res.Days())
}

func (s *PaymentService) CreateCheckout(ctx context.Context, reservationID int64) (*entities.CheckoutResponse, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.Status != db.StatusPending {
		return nil, apperrors.Newf(apperrors.KindInvalidTransition, "cannot pay %s reservation", res.Status)
	}

	vehicle, err := s.vehicles.GetByID(ctx, res.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, vehicleNotFound(res.VehicleID)
	}
	amount := Quote(*res, *vehicle)
	if amount <= 0 {
		return nil, apperrors.Newf(apperrors.KindValidation, "vehicle %d has no daily rate", vehicle.ID)
	}

	var email string
	if user, err := s.users.GetByID(ctx, res.UserID); err != nil {
		return nil, err
	} else if user != nil {
		email = user.Email
	}

	sess, err := s.provider.CreateCheckoutSession(ctx, CheckoutRequest{
		ReservationID:  res.ID,
		Amount:         amount,
		Currency:       s.currency,
		Description:    fmt.Sprintf("%s (%s), %s to %s", vehicle.Name, vehicle.PlateNumber, res.StartDate, res.EndDate),
		CustomerEmail:  email,
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.payments.SetCheckoutSession(ctx, res.ID, sess.ID, db.PaymentPending); err != nil {
		return nil, err
	}

	return &entities.CheckoutResponse{
		ReservationID: res.ID,
		SessionID:     sess.ID,
		URL:           sess.URL,
		Amount:        amount,
		Currency:      s.currency,
	}, nil
}

// HandleCheckoutCompleted records the payment and confirms the reservation.
// A reservation that already left pending keeps its status.
func (s *PaymentService) HandleCheckoutCompleted(ctx context.Context, sessionID string) error {
	res, err := s.payments.GetByStripeSessionID(ctx, sessionID)
	if err != nil {
		return err
	}
	if res == nil {
		return apperrors.Newf(apperrors.KindNotFound, "no reservation for session %s", sessionID)
	}
	if err := s.payments.UpdatePaymentStatusBySessionID(ctx, sessionID, db.PaymentSucceeded); err != nil {
		return err
	}

	if _, err := s.reservations.Confirm(ctx, res.ID); err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) {
			log.Printf("Payment received for reservation %d which is %s, not confirming", res.ID, res.Status)
			return nil
		}
		return err
	}
	return nil
}

func (s *PaymentService) HandleChargeRefunded(ctx context.Context, paymentIntentID string) error {
	sessionID, err := s.provider.SessionIDForPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return err
	}
	return s.payments.UpdatePaymentStatusBySessionID(ctx, sessionID, db.PaymentRefunded)
}
