package entitlement

import (
	"time"

	"github.com/wonny/alphaweek/backend/internal/contracts"
)

// IsEntitled decides whether a subscription grants access at `now`.
// ⭐ SSOT: the entitlement rule lives here and only here
//
// Entitled iff a record exists, its status is active or trialing, and
// its period end is strictly after now. A period ending exactly at
// `now` is not entitled. Pure predicate, no side effects.
func IsEntitled(sub *contracts.Subscription, now time.Time) bool {
	if sub == nil {
		return false
	}

	if !sub.Status.Entitles() {
		return false
	}

	if sub.CurrentPeriodEnd == nil {
		return false
	}

	return sub.CurrentPeriodEnd.After(now)
}
