package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/wonny/alphaweek/backend/internal/auth"
	"github.com/wonny/alphaweek/backend/internal/contracts"
	"github.com/wonny/alphaweek/backend/internal/external/stripe"
	"github.com/wonny/alphaweek/backend/pkg/config"
	"github.com/wonny/alphaweek/backend/pkg/logger"
)

// maxWebhookBody bounds webhook payload reads
const maxWebhookBody = 1 << 16 // 64 KiB

// BillingStore is the billing persistence the handler needs
type BillingStore interface {
	GetByUserID(ctx context.Context, userID int64) (*contracts.Subscription, error)
	CreatePending(ctx context.Context, userID int64, customerID string) error
	UpdateFromEvent(ctx context.Context, customerID, status string, periodEnd time.Time) error
	MarkCanceled(ctx context.Context, customerID string) error
	UserEmail(ctx context.Context, userID int64) (string, error)
}

// CheckoutClient is the Stripe surface the handler needs
type CheckoutClient interface {
	CreateCustomer(ctx context.Context, email string) (string, error)
	CreateCheckoutSession(ctx context.Context, customerID, priceID string) (string, error)
}

// BillingHandler handles checkout and Stripe webhook endpoints
// ⭐ SSOT: billing API handlers live in this struct and only this struct
type BillingHandler struct {
	store  BillingStore
	stripe CheckoutClient
	cfg    config.StripeConfig
	logger *logger.Logger
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(store BillingStore, stripeClient CheckoutClient, cfg config.StripeConfig, log *logger.Logger) *BillingHandler {
	return &BillingHandler{
		store:  store,
		stripe: stripeClient,
		cfg:    cfg,
		logger: log,
	}
}

// CheckoutResponse carries the hosted payment page URL
type CheckoutResponse struct {
	URL string `json:"url"`
}

// CreateCheckout starts a subscription checkout for the caller
// POST /api/billing/checkout
//
// Reuses the user's Stripe customer when one exists; otherwise creates
// one and records it as pending before redirecting to checkout.
func (h *BillingHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.UserID(ctx)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	sub, err := h.store.GetByUserID(ctx, userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load billing record")
		respondError(w, http.StatusInternalServerError, "Failed to start checkout")
		return
	}

	var customerID string
	if sub != nil {
		customerID = sub.StripeCustomerID
	} else {
		email, err := h.store.UserEmail(ctx, userID)
		if err != nil {
			h.logger.WithError(err).Error("Failed to load user email")
			respondError(w, http.StatusInternalServerError, "Failed to start checkout")
			return
		}

		customerID, err = h.stripe.CreateCustomer(ctx, email)
		if err != nil {
			h.logger.WithError(err).Error("Failed to create Stripe customer")
			respondError(w, http.StatusBadGateway, "Failed to start checkout")
			return
		}

		if err := h.store.CreatePending(ctx, userID, customerID); err != nil {
			h.logger.WithError(err).Error("Failed to record pending customer")
			respondError(w, http.StatusInternalServerError, "Failed to start checkout")
			return
		}
	}

	url, err := h.stripe.CreateCheckoutSession(ctx, customerID, h.cfg.PriceID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create checkout session")
		respondError(w, http.StatusBadGateway, "Failed to start checkout")
		return
	}

	respondJSON(w, http.StatusOK, CheckoutResponse{URL: url})
}

// Webhook applies Stripe subscription lifecycle events
// POST /api/stripe/webhook
//
// The signature is the authentication; an invalid one is rejected
// before the payload is interpreted. Unhandled event types are
// acknowledged so Stripe stops retrying them.
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read payload")
		return
	}

	event, err := stripe.ParseEvent(payload, r.Header.Get("Stripe-Signature"), h.cfg.WebhookSecret, time.Now())
	if err != nil {
		h.logger.WithError(err).Warn("Rejected Stripe webhook")
		respondError(w, http.StatusBadRequest, "Invalid signature")
		return
	}

	switch event.Type {
	case stripe.EventSubscriptionCreated, stripe.EventSubscriptionUpdated:
		sub, err := event.Subscription()
		if err != nil {
			respondError(w, http.StatusBadRequest, "Malformed event object")
			return
		}
		if err := h.store.UpdateFromEvent(ctx, sub.Customer, sub.Status, sub.PeriodEnd()); err != nil {
			h.logger.WithError(err).Error("Failed to apply subscription event")
			respondError(w, http.StatusInternalServerError, "Failed to apply event")
			return
		}

	case stripe.EventSubscriptionDeleted:
		sub, err := event.Subscription()
		if err != nil {
			respondError(w, http.StatusBadRequest, "Malformed event object")
			return
		}
		if err := h.store.MarkCanceled(ctx, sub.Customer); err != nil {
			h.logger.WithError(err).Error("Failed to mark subscription canceled")
			respondError(w, http.StatusInternalServerError, "Failed to apply event")
			return
		}

	default:
		h.logger.WithField("type", event.Type).Debug("Ignoring Stripe event")
	}

	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}
