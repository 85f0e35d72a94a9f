package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const testWebhookSecret = "whsec_test_secret"

func eventPayload(eventType, object string) []byte {
	return []byte(fmt.Sprintf(`{
  "id": "evt_test",
  "object": "event",
  "api_version": %q,
  "type": %q,
  "data": {"object": %s}
}`, stripe.APIVersion, eventType, object))
}

func postWebhook(h *StripeWebhookHandler, payload []byte, secret string) *httptest.ResponseRecorder {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signed.Header)
	rec := httptest.NewRecorder()
	h.HandleWebhook(rec, req)
	return rec
}

func TestStripeWebhookCheckoutCompleted(t *testing.T) {
	payments := new(mockPaymentEvents)
	payments.On("HandleCheckoutCompleted", mock.Anything, "cs_test_123").Return(nil).Once()
	h := NewStripeWebhookHandler(testWebhookSecret, payments)

	rec := postWebhook(h, eventPayload("checkout.session.completed", `{"id": "cs_test_123", "object": "checkout.session"}`), testWebhookSecret)
	assert.Equal(t, http.StatusOK, rec.Code)
	payments.AssertExpectations(t)
}

func TestStripeWebhookChargeRefunded(t *testing.T) {
	payments := new(mockPaymentEvents)
	payments.On("HandleChargeRefunded", mock.Anything, "pi_test_1").Return(errors.New("no session")).Once()
	h := NewStripeWebhookHandler(testWebhookSecret, payments)

	// Refund failures are logged; Stripe still gets a 200.
	rec := postWebhook(h, eventPayload("charge.refunded", `{"id": "ch_1", "object": "charge", "payment_intent": "pi_test_1"}`), testWebhookSecret)
	assert.Equal(t, http.StatusOK, rec.Code)
	payments.AssertExpectations(t)
}

func TestStripeWebhookRejects(t *testing.T) {
	payments := new(mockPaymentEvents)
	h := NewStripeWebhookHandler(testWebhookSecret, payments)

	rec := postWebhook(h, eventPayload("checkout.session.completed", `{"id": "cs_1"}`), "whsec_other")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postWebhook(h, eventPayload("checkout.session.completed", `{"object": "checkout.session"}`), testWebhookSecret)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postWebhook(h, eventPayload("customer.created", `{"id": "cus_1", "object": "customer"}`), testWebhookSecret)
	assert.Equal(t, http.StatusOK, rec.Code)

	payments.AssertNotCalled(t, "HandleCheckoutCompleted", mock.Anything, mock.Anything)
}

func TestStripeWebhookFailurePropagates(t *testing.T) {
	payments := new(mockPaymentEvents)
	payments.On("HandleCheckoutCompleted", mock.Anything, "cs_missing").Return(errors.New("no reservation")).Once()
	h := NewStripeWebhookHandler(testWebhookSecret, payments)

	rec := postWebhook(h, eventPayload("checkout.session.completed", `{"id": "cs_missing", "object": "checkout.session"}`), testWebhookSecret)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStripeWebhookDisabled(t *testing.T) {
	h := NewStripeWebhookHandler(testWebhookSecret, nil)
	rec := postWebhook(h, eventPayload("checkout.session.completed", `{"id": "cs_1"}`), testWebhookSecret)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
