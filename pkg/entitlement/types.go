package entitlement

import (
	"github.com/google/uuid"

	"github.com/labelgrid/entitlements/pkg/ledger"
	"github.com/labelgrid/entitlements/pkg/planlimit"
)

// UsageType identifies a metered action requested by a tenant.
type UsageType string

const (
	UsageUnitLabel      UsageType = "unit_label"      // serialized unit label generation
	UsageBoxLabel       UsageType = "box_label"       // SSCC box code allocation
	UsageCartonLabel    UsageType = "carton_label"    // SSCC carton code allocation
	UsagePalletLabel    UsageType = "pallet_label"    // SSCC pallet code allocation
	UsageSeatActivation UsageType = "seat_activation" // operator seat activation
	UsageLabelPreview   UsageType = "label_preview"   // rendering preview, not persisted
	UsageIngestionProbe UsageType = "ingestion_probe" // master-data ingestion dry run
)

// usageTypeSpec maps one usage type onto its quota pool and plan-limit metric.
// The mapping is deliberately not 1:1: box, carton, and pallet labels carry
// independent plan metrics but all draw from the consolidated sscc pool, and
// seat activations are limit-gated without touching the ledger at all.
type usageTypeSpec struct {
	kind         ledger.Kind      // empty for types that never touch the ledger
	metric       planlimit.Metric // empty for non-consuming types
	nonConsuming bool             // previews and probes bypass the engine entirely
}

var usageTypes = map[UsageType]usageTypeSpec{
	UsageUnitLabel:      {kind: ledger.KindUnit, metric: planlimit.MetricUnitLabels},
	UsageBoxLabel:       {kind: ledger.KindSSCC, metric: planlimit.MetricBoxLabels},
	UsageCartonLabel:    {kind: ledger.KindSSCC, metric: planlimit.MetricCartonLabels},
	UsagePalletLabel:    {kind: ledger.KindSSCC, metric: planlimit.MetricPalletLabels},
	UsageSeatActivation: {metric: planlimit.MetricSeats},
	UsageLabelPreview:   {nonConsuming: true},
	UsageIngestionProbe: {nonConsuming: true},
}

// IsValid reports whether the usage type is known.
func (t UsageType) IsValid() bool {
	_, ok := usageTypes[t]
	return ok
}

// Kind returns the ledger pool this usage type draws from, if any.
func (t UsageType) Kind() (ledger.Kind, bool) {
	spec, ok := usageTypes[t]
	if !ok || spec.kind == "" {
		return "", false
	}
	return spec.kind, true
}

// Metric returns the plan-limit metric this usage type is gated by, if any.
func (t UsageType) Metric() (planlimit.Metric, bool) {
	spec, ok := usageTypes[t]
	if !ok || spec.metric == "" {
		return "", false
	}
	return spec.metric, true
}

// IsNonConsuming reports whether the usage type bypasses the ledger entirely.
func (t UsageType) IsNonConsuming() bool {
	return usageTypes[t].nonConsuming
}

// Reason explains an entitlement decision to the caller, which maps it to a
// user-facing outcome.
type Reason string

const (
	ReasonAllowed              Reason = "ALLOWED"
	ReasonNonConsuming         Reason = "NON_CONSUMING"
	ReasonInvalidUsageType     Reason = "INVALID_USAGE_TYPE"
	ReasonTrialExpired         Reason = "TRIAL_EXPIRED"
	ReasonNoActiveSubscription Reason = "NO_ACTIVE_SUBSCRIPTION"
	ReasonSubscriptionInactive Reason = "SUBSCRIPTION_INACTIVE"
	ReasonPlanLimitReached     Reason = "PLAN_LIMIT_REACHED"
	ReasonQuotaExceeded        Reason = "QUOTA_EXCEEDED"
)

// UnlimitedRemaining is the sentinel for "no meaningful remaining balance":
// non-consuming usage types and uncapped metrics report it.
const UnlimitedRemaining int64 = -1

// Decision is the structured outcome of one enforcement check. Denials are
// decisions, not errors: only store failures surface as Go errors.
type Decision struct {
	Allow     bool
	Reason    Reason
	Remaining int64 // combined balance (or limit headroom) after the decision
	Consumed  int64 // quota units actually debited

	// ReservationID identifies the ledger debit for the compensation
	// protocol: pass it to Commit after successful generation or to Refund
	// on failure. Zero when nothing was consumed.
	ReservationID uuid.UUID
}
