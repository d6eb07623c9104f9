package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/alphaweek/backend/internal/contracts"
)

// SubscriptionRepository reads and writes billing records
// ⭐ SSOT: billing persistence lives here and only here
//
// Rows are mutated only by the Stripe webhook path; the entitlement
// gate reads them and nothing else.
type SubscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool}
}

// GetByUserID returns the user's subscription record, or nil when the
// user has never started checkout
func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID int64) (*contracts.Subscription, error) {
	var sub contracts.Subscription
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, stripe_customer_id, subscription_status, current_period_end
		FROM billing.customers
		WHERE user_id = $1
	`, userID).Scan(&sub.UserID, &sub.StripeCustomerID, &sub.Status, &sub.CurrentPeriodEnd)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query subscription: %w", err)
	}

	return &sub, nil
}

// CreatePending records a freshly created Stripe customer for a user
func (r *SubscriptionRepository) CreatePending(ctx context.Context, userID int64, customerID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO billing.customers (user_id, stripe_customer_id, subscription_status)
		VALUES ($1, $2, $3)
	`, userID, customerID, contracts.SubscriptionPending)
	if err != nil {
		return fmt.Errorf("failed to create pending customer: %w", err)
	}

	return nil
}

// UpdateFromEvent applies a subscription created/updated webhook
func (r *SubscriptionRepository) UpdateFromEvent(ctx context.Context, customerID, status string, periodEnd time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE billing.customers
		SET subscription_status = $1, current_period_end = $2, updated_at = NOW()
		WHERE stripe_customer_id = $3
	`, status, periodEnd, customerID)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("unknown stripe customer: %s", customerID)
	}

	return nil
}

// MarkCanceled applies a subscription deleted webhook
func (r *SubscriptionRepository) MarkCanceled(ctx context.Context, customerID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE billing.customers
		SET subscription_status = $1, updated_at = NOW()
		WHERE stripe_customer_id = $2
	`, contracts.SubscriptionCanceled, customerID)
	if err != nil {
		return fmt.Errorf("failed to mark canceled: %w", err)
	}

	return nil
}

// UserExists verifies that a user id resolves to a known user
func (r *SubscriptionRepository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM billing.users WHERE id = $1)
	`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}

	return exists, nil
}

// UserEmail returns the user's email, empty when unset
func (r *SubscriptionRepository) UserEmail(ctx context.Context, userID int64) (string, error) {
	var email *string
	err := r.pool.QueryRow(ctx, `
		SELECT email FROM billing.users WHERE id = $1
	`, userID).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query user email: %w", err)
	}

	if email == nil {
		return "", nil
	}
	return *email, nil
}
