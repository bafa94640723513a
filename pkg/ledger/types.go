package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies one of the two independently tracked quota pools.
type Kind string

const (
	// KindUnit covers unit-level label generation.
	KindUnit Kind = "unit"

	// KindSSCC is the consolidated container pool: box, carton, and pallet
	// labels all draw from this single balance. The consolidation is a
	// product decision baked into the schema; splitting it is a schema
	// change, not a code change.
	KindSSCC Kind = "sscc"
)

// Kinds lists every quota pool in a stable order.
var Kinds = []Kind{KindUnit, KindSSCC}

// IsValid reports whether k is a known quota kind.
func (k Kind) IsValid() bool {
	return k == KindUnit || k == KindSSCC
}

// Balance holds the two pools of a tenant's quota for one kind.
// Base is plan-granted and reset or rolled over at period boundaries;
// Addon is purchased separately and never auto-reset. Both are always >= 0.
type Balance struct {
	Base  int64
	Addon int64
}

// Total returns the combined spendable balance.
func (b Balance) Total() int64 {
	return b.Base + b.Addon
}

// Interval is the cadence of a billing window.
type Interval string

const (
	IntervalTrial   Interval = "trial"
	IntervalMonthly Interval = "monthly"
	IntervalYearly  Interval = "yearly"
)

// Period is an immutable snapshot of one billing window for a tenant.
// Created lazily on first usage check in a new window.
type Period struct {
	TenantID uuid.UUID
	PlanID   string
	Start    time.Time
	End      time.Time
	Interval Interval
}

// Contains reports whether the instant falls inside the window [Start, End).
func (p Period) Contains(now time.Time) bool {
	return !now.Before(p.Start) && now.Before(p.End)
}

// ReservationStatus tracks the saga state of a quota reservation.
type ReservationStatus string

const (
	ReservationReserved  ReservationStatus = "reserved"  // debited, generation pending
	ReservationCommitted ReservationStatus = "committed" // generation confirmed
	ReservationRefunded  ReservationStatus = "refunded"  // compensated back to the ledger
)

// Reservation records a quota debit awaiting generation confirmation.
// Reservations stuck in the reserved state past a TTL are picked up by the
// reconciliation sweep and refunded.
type Reservation struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Kind      Kind
	Quantity  int64
	Status    ReservationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
