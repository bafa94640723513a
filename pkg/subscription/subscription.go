package subscription

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BillingInterval represents the billing frequency for a subscription plan.
type BillingInterval string

const (
	BillingIntervalMonthly BillingInterval = "monthly"
	BillingIntervalYearly  BillingInterval = "yearly"
)

// Subscription represents a tenant's subscription to a plan.
// Each tenant has exactly one active subscription at a time; the tenant
// record itself is never deleted, only state-transitioned.
type Subscription struct {
	TenantID         uuid.UUID // Primary key - one subscription per tenant
	PlanID           string
	Status           Status
	Interval         BillingInterval
	CurrentPeriodEnd *time.Time // End of the current paid billing period
	TrialEndsAt      *time.Time // Set only for plans with trials
	GracePeriodEnd   *time.Time // Stamped once per expiry event
	CancelledAt      *time.Time // Set when subscription is cancelled
	ExtraSeats       int        // Seats purchased on top of the plan allowance
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsTrialing returns true if the subscription is in one of the trial states.
func (s *Subscription) IsTrialing() bool {
	return s.Status.IsTrial()
}

// IsActive returns true if the subscription is active (paid).
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}

// IsCancelled returns true if the subscription is cancelled.
func (s *Subscription) IsCancelled() bool {
	return s.Status == StatusCancelled
}

// IsOperable reports whether the subscription entitles the tenant to consume
// metered resources. Pending payment, cancellation, and expiry all make the
// tenant non-operable; grace-period access is decided separately.
func (s *Subscription) IsOperable() bool {
	switch s.Status {
	case StatusTrial, StatusTrialing, StatusActive, StatusPaused:
		return true
	}
	return false
}

// IsTrialExpired returns true if the trial period has ended.
func (s *Subscription) IsTrialExpired() bool {
	return s.IsTrialExpiredAt(time.Now().UTC())
}

// IsTrialExpiredAt reports trial expiry against a fixed time, for testing.
func (s *Subscription) IsTrialExpiredAt(now time.Time) bool {
	if s.TrialEndsAt == nil {
		return false
	}
	return now.After(*s.TrialEndsAt)
}

// Transition moves the subscription to a new status if the lifecycle table
// allows it, updating UpdatedAt. Returns ErrInvalidTransition otherwise.
func (s *Subscription) Transition(to Status) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if !IsValidTransition(s.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, to)
	}
	s.Status = to
	now := time.Now().UTC()
	s.UpdatedAt = now
	if to == StatusCancelled {
		s.CancelledAt = &now
	}
	return nil
}

// TrialDaysRemainingAt returns the number of days remaining in the trial at a
// given time. Returns 0 if not in trial or trial has expired.
func (s *Subscription) TrialDaysRemainingAt(now time.Time) int {
	if !s.IsTrialing() || s.TrialEndsAt == nil {
		return 0
	}

	remaining := s.TrialEndsAt.Sub(now)
	if remaining <= 0 {
		return 0
	}

	// Round up partial days to be user-friendly
	days := remaining.Hours() / 24
	return int(days + 0.5)
}

// TrialDaysRemaining returns the number of days remaining in the trial.
func (s *Subscription) TrialDaysRemaining() int {
	return s.TrialDaysRemainingAt(time.Now().UTC())
}
