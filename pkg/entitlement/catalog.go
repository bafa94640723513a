package entitlement

import (
	"maps"

	"github.com/labelgrid/entitlements/pkg/ledger"
)

// PlanQuota describes the quota grants of one plan tier.
type PlanQuota struct {
	// Interval is the plan's billing cadence.
	Interval ledger.Interval

	// PeriodQuotas seed the base balance of each pool when a new billing
	// window is created. For yearly plans this is the first monthly
	// allotment; the rest arrives through rollover.
	PeriodQuotas map[ledger.Kind]int64

	// MonthlyAllotments drive the rollover engine on yearly plans: each whole
	// elapsed month credits this much to the base pool. Empty for monthly
	// plans, which reset instead of rolling over.
	MonthlyAllotments map[ledger.Kind]int64
}

// Catalog maps plan IDs to their quota grants. Read-only input to the
// enforcer, owned by the plan management system.
type Catalog map[string]PlanQuota

// Get returns the quota grants for a plan.
func (c Catalog) Get(planID string) (PlanQuota, bool) {
	q, ok := c[planID]
	return q, ok
}

// Clone returns a deep copy, so a catalog handed to the service cannot be
// mutated underneath it.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for id, q := range c {
		out[id] = PlanQuota{
			Interval:          q.Interval,
			PeriodQuotas:      maps.Clone(q.PeriodQuotas),
			MonthlyAllotments: maps.Clone(q.MonthlyAllotments),
		}
	}
	return out
}
