package contracts

import "time"

// SubscriptionStatus mirrors the Stripe subscription status values we store
type SubscriptionStatus string

const (
	SubscriptionPending  SubscriptionStatus = "pending"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Entitles reports whether the status alone is good enough for access.
// The entitlement gate additionally requires a future period end.
func (s SubscriptionStatus) Entitles() bool {
	return s == SubscriptionActive || s == SubscriptionTrialing
}

// Subscription is the per-user billing record
// Mutated only by the Stripe webhook path; read-only input to the gate
type Subscription struct {
	UserID           int64              `json:"user_id"`
	StripeCustomerID string             `json:"stripe_customer_id"`
	Status           SubscriptionStatus `json:"status"`
	CurrentPeriodEnd *time.Time         `json:"current_period_end,omitempty"`
}
