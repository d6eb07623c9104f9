package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/alphaweek/backend/internal/auth"
	"github.com/wonny/alphaweek/backend/internal/contracts"
	"github.com/wonny/alphaweek/backend/pkg/config"
	"github.com/wonny/alphaweek/backend/pkg/logger"
)

const testWebhookSecret = "whsec_test"

type fakeBillingStore struct {
	sub   *contracts.Subscription
	email string

	pendingUserID     int64
	pendingCustomerID string
	updatedCustomer   string
	updatedStatus     string
	updatedPeriodEnd  time.Time
	canceledCustomer  string
}

func (f *fakeBillingStore) GetByUserID(ctx context.Context, userID int64) (*contracts.Subscription, error) {
	return f.sub, nil
}

func (f *fakeBillingStore) CreatePending(ctx context.Context, userID int64, customerID string) error {
	f.pendingUserID = userID
	f.pendingCustomerID = customerID
	return nil
}

func (f *fakeBillingStore) UpdateFromEvent(ctx context.Context, customerID, status string, periodEnd time.Time) error {
	f.updatedCustomer = customerID
	f.updatedStatus = status
	f.updatedPeriodEnd = periodEnd
	return nil
}

func (f *fakeBillingStore) MarkCanceled(ctx context.Context, customerID string) error {
	f.canceledCustomer = customerID
	return nil
}

func (f *fakeBillingStore) UserEmail(ctx context.Context, userID int64) (string, error) {
	return f.email, nil
}

type fakeCheckoutClient struct {
	customerID  string
	sessionURL  string
	gotCustomer string
}

func (f *fakeCheckoutClient) CreateCustomer(ctx context.Context, email string) (string, error) {
	return f.customerID, nil
}

func (f *fakeCheckoutClient) CreateCheckoutSession(ctx context.Context, customerID, priceID string) (string, error) {
	f.gotCustomer = customerID
	return f.sessionURL, nil
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func newBillingHandler(store *fakeBillingStore, client *fakeCheckoutClient) *BillingHandler {
	return NewBillingHandler(store, client, config.StripeConfig{
		PriceID:       "price_test",
		WebhookSecret: testWebhookSecret,
	}, testLogger())
}

func signedHeader(payload []byte, ts time.Time) string {
	t := fmt.Sprintf("%d", ts.Unix())
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write([]byte(t + "."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", t, hex.EncodeToString(mac.Sum(nil)))
}

func TestBillingHandler_CreateCheckout_NewCustomer(t *testing.T) {
	store := &fakeBillingStore{email: "user@example.com"}
	client := &fakeCheckoutClient{customerID: "cus_123", sessionURL: "https://checkout.stripe.com/pay/cs_1"}
	h := newBillingHandler(store, client)

	req := httptest.NewRequest(http.MethodPost, "/api/billing/checkout", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), 1))
	rec := httptest.NewRecorder()

	h.CreateCheckout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp CheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_1", resp.URL)

	assert.Equal(t, int64(1), store.pendingUserID)
	assert.Equal(t, "cus_123", store.pendingCustomerID)
	assert.Equal(t, "cus_123", client.gotCustomer)
}

func TestBillingHandler_CreateCheckout_ExistingCustomer(t *testing.T) {
	store := &fakeBillingStore{
		sub: &contracts.Subscription{UserID: 1, StripeCustomerID: "cus_existing", Status: contracts.SubscriptionCanceled},
	}
	client := &fakeCheckoutClient{customerID: "cus_should_not_be_used", sessionURL: "https://checkout.stripe.com/pay/cs_2"}
	h := newBillingHandler(store, client)

	req := httptest.NewRequest(http.MethodPost, "/api/billing/checkout", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), 1))
	rec := httptest.NewRecorder()

	h.CreateCheckout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cus_existing", client.gotCustomer)
	assert.Zero(t, store.pendingUserID)
}

func TestBillingHandler_Webhook_SubscriptionUpdated(t *testing.T) {
	store := &fakeBillingStore{}
	h := newBillingHandler(store, &fakeCheckoutClient{})

	periodEnd := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	payload := []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"type": "customer.subscription.updated",
		"data": {"object": {"id": "sub_1", "customer": "cus_123", "status": "active", "current_period_end": %d}}
	}`, periodEnd.Unix()))

	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", strings.NewReader(string(payload)))
	req.Header.Set("Stripe-Signature", signedHeader(payload, time.Now()))
	rec := httptest.NewRecorder()

	h.Webhook(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cus_123", store.updatedCustomer)
	assert.Equal(t, "active", store.updatedStatus)
	assert.True(t, store.updatedPeriodEnd.Equal(periodEnd))
}

func TestBillingHandler_Webhook_SubscriptionDeleted(t *testing.T) {
	store := &fakeBillingStore{}
	h := newBillingHandler(store, &fakeCheckoutClient{})

	payload := []byte(`{
		"id": "evt_2",
		"type": "customer.subscription.deleted",
		"data": {"object": {"id": "sub_1", "customer": "cus_123", "status": "canceled", "current_period_end": 0}}
	}`)

	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", strings.NewReader(string(payload)))
	req.Header.Set("Stripe-Signature", signedHeader(payload, time.Now()))
	rec := httptest.NewRecorder()

	h.Webhook(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cus_123", store.canceledCustomer)
}

func TestBillingHandler_Webhook_BadSignature(t *testing.T) {
	store := &fakeBillingStore{}
	h := newBillingHandler(store, &fakeCheckoutClient{})

	payload := []byte(`{"id": "evt_3", "type": "customer.subscription.updated", "data": {"object": {}}}`)

	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", strings.NewReader(string(payload)))
	req.Header.Set("Stripe-Signature", "t=0,v1=deadbeef")
	rec := httptest.NewRecorder()

	h.Webhook(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.updatedCustomer)
}
