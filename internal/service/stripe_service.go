package service

import (
	"context"
	"fmt"
	"strconv"

	"carrental/internal/config"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

type CheckoutRequest struct {
	ReservationID  int64
	Amount         int64
	Currency       string
	Description    string
	CustomerEmail  string
	IdempotencyKey string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentProvider is the hosted checkout used to pay reservations.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	SessionIDForPaymentIntent(ctx context.Context, paymentIntentID string) (string, error)
}

type StripeService struct {
	successURL string
	cancelURL  string
}

// NewStripeService sets the global Stripe key used by the stripe-go resource packages.
func NewStripeService(cfg config.StripeConfig) *StripeService {
	stripe.Key = cfg.SecretKey
	return &StripeService{successURL: cfg.SuccessURL, cancelURL: cfg.CancelURL}
}

func (s *StripeService) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	reference := strconv.FormatInt(req.ReservationID, 10)
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(req.Amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(s.successURL),
		CancelURL:         stripe.String(s.cancelURL),
		ClientReferenceID: stripe.String(reference),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.AddMetadata("reservation_id", reference)
	params.SetIdempotencyKey(req.IdempotencyKey)
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("error creating checkout session for reservation %d: %w", req.ReservationID, err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// SessionIDForPaymentIntent finds the checkout session that created a PaymentIntent.
func (s *StripeService) SessionIDForPaymentIntent(ctx context.Context, paymentIntentID string) (string, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.Limit = stripe.Int64(1)
	params.Context = ctx
	it := session.List(params)
	for it.Next() {
		sess := it.CheckoutSession()
		if sess != nil && sess.ID != "" {
			return sess.ID, nil
		}
	}
	if err := it.Err(); err != nil {
		return "", fmt.Errorf("error listing checkout sessions: %w", err)
	}
	return "", fmt.Errorf("no session found for PaymentIntent %s", paymentIntentID)
}
