package planlimit

// Metric identifies a plan-limited usage dimension. Metrics are deliberately
// finer-grained than ledger quota kinds: box, carton, and pallet labels are
// limited independently even though they share one consolidated balance pool.
type Metric string

const (
	MetricUnitLabels   Metric = "unit_labels"
	MetricBoxLabels    Metric = "box_labels"
	MetricCartonLabels Metric = "carton_labels"
	MetricPalletLabels Metric = "pallet_labels"
	MetricSeats        Metric = "seats"
)

const (
	// Unlimited indicates no limit for a metric (-1 chosen for SQL compatibility)
	Unlimited int64 = -1
)

// LimitType controls how a plan limit is enforced.
type LimitType string

const (
	LimitHard LimitType = "hard" // blocks usage beyond the limit
	LimitSoft LimitType = "soft" // never blocks, flags excess
	LimitNone LimitType = "none" // limit value ignored
)

// Limit is a single plan cap for one metric.
type Limit struct {
	Value int64     `yaml:"value"`
	Type  LimitType `yaml:"type"`
}

// PlanLimits holds the per-metric caps for one plan.
type PlanLimits struct {
	PlanID string           `yaml:"plan_id"`
	Limits map[Metric]Limit `yaml:"limits"`
}

// Evaluation is the outcome of checking a requested quantity against a plan limit.
type Evaluation struct {
	Allowed      bool
	Exceeded     bool // soft limit crossed; usage still allowed
	Limit        int64
	CurrentUsage int64
	Remaining    int64 // max(0, limit-currentUsage); Unlimited when no cap applies
}
