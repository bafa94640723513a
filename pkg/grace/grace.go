// Package grace derives bounded post-expiry access for tenants whose
// subscription has lapsed. Applying a grace period transitions the
// subscription to expired through the lifecycle table and stamps the window
// end once; the resulting access level is a pure function of the current
// state and is computed fresh on every request, never cached.
package grace

import (
	"errors"
	"fmt"
	"time"

	"github.com/labelgrid/entitlements/pkg/subscription"
)

var (
	ErrNilSubscription    = errors.New("grace.errors.nil_subscription")
	ErrGraceAlreadyActive = errors.New("grace.errors.grace_already_active")
)

// Tier identifies the plan tier used to size the grace window.
type Tier string

const (
	TierEnterprise Tier = "enterprise"
	TierPremium    Tier = "premium"
	TierGrowth     Tier = "growth"
	TierStarter    Tier = "starter"
	TierTrial      Tier = "trial"
)

// AccessStatus is the derived grace state of a subscription.
type AccessStatus string

const (
	SubscriptionActive AccessStatus = "subscription_active"
	GraceActive        AccessStatus = "grace_active"
	GraceExpired       AccessStatus = "grace_expired"
)

// Level is the amount of product access the tenant retains.
type Level string

const (
	LevelFull    Level = "full"
	LevelLimited Level = "limited"
	LevelNone    Level = "none"
)

// Access is the derived access decision for one request.
type Access struct {
	Status        AccessStatus
	Level         Level
	DaysRemaining int
}

// PeriodByTier returns the grace window length for a plan tier.
// Trials get no grace at all: expiry means immediate lockout.
func PeriodByTier(tier Tier) time.Duration {
	days := 7 // default for unknown tiers
	switch tier {
	case TierEnterprise:
		days = 30
	case TierPremium, TierGrowth:
		days = 14
	case TierStarter:
		days = 3
	case TierTrial:
		days = 0
	}
	return time.Duration(days) * 24 * time.Hour
}

// Apply expires the subscription and stamps the grace window end.
// Guarded: a subscription already inside an unexpired grace window is left
// untouched, so repeated expiry events cannot keep resetting the window.
func Apply(sub *subscription.Subscription, tier Tier, now time.Time) error {
	if sub == nil {
		return ErrNilSubscription
	}
	now = now.UTC()

	if sub.Status == subscription.StatusExpired && sub.GracePeriodEnd != nil && now.Before(*sub.GracePeriodEnd) {
		return fmt.Errorf("%w: until %s", ErrGraceAlreadyActive, sub.GracePeriodEnd.Format(time.RFC3339))
	}

	if sub.Status != subscription.StatusExpired {
		if err := sub.Transition(subscription.StatusExpired); err != nil {
			return err
		}
	}

	end := now.Add(PeriodByTier(tier))
	sub.GracePeriodEnd = &end
	sub.UpdatedAt = now
	return nil
}

// Evaluate derives the access level for a subscription at a point in time.
// Pure: same inputs always produce the same decision.
func Evaluate(sub *subscription.Subscription, now time.Time) Access {
	if sub == nil {
		return Access{Status: GraceExpired, Level: LevelNone}
	}
	now = now.UTC()

	if sub.Status != subscription.StatusExpired {
		if sub.IsOperable() {
			return Access{Status: SubscriptionActive, Level: LevelFull}
		}
		// Pending or cancelled: not expired, but not entitled either.
		return Access{Status: GraceExpired, Level: LevelNone}
	}

	if sub.GracePeriodEnd == nil || !now.Before(*sub.GracePeriodEnd) {
		return Access{Status: GraceExpired, Level: LevelNone}
	}

	remaining := sub.GracePeriodEnd.Sub(now)
	days := int(remaining.Hours() / 24)
	if remaining%(24*time.Hour) != 0 {
		days++ // partial days count as a full remaining day
	}
	return Access{Status: GraceActive, Level: LevelLimited, DaysRemaining: days}
}
