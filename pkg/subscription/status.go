package subscription

// Status represents the lifecycle state of a tenant subscription.
type Status string

const (
	StatusTrial     Status = "trial"     // trial requested, not yet started
	StatusTrialing  Status = "trialing"  // trial in progress
	StatusPending   Status = "pending"   // awaiting payment confirmation
	StatusActive    Status = "active"    // paid and operable
	StatusPaused    Status = "paused"    // voluntarily suspended by the tenant
	StatusCancelled Status = "cancelled" // cancelled by the tenant or provider
	StatusExpired   Status = "expired"   // period ended without renewal
)

// Statuses lists every known subscription status in a stable order.
var Statuses = []Status{
	StatusTrial,
	StatusTrialing,
	StatusPending,
	StatusActive,
	StatusPaused,
	StatusCancelled,
	StatusExpired,
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusTrial, StatusTrialing, StatusPending, StatusActive,
		StatusPaused, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// IsTrial reports whether the status is one of the trial states.
func (s Status) IsTrial() bool {
	return s == StatusTrial || s == StatusTrialing
}
