package entitlement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/labelgrid/entitlements/pkg/ledger"
	"github.com/labelgrid/entitlements/pkg/planlimit"
	"github.com/labelgrid/entitlements/pkg/subscription"
	"github.com/labelgrid/entitlements/pkg/usage"
)

// Service is the entitlement enforcer: the single gate every metered action
// passes through. It checks subscription state, plan limits, and the quota
// ledger, then consumes atomically. Handlers share no process memory, so all
// coordination lives in the ledger store.
type Service struct {
	store    ledger.Store
	limits   planlimit.Service
	catalog  Catalog
	recorder *usage.Recorder
	metrics  *usage.Metrics
	log      *slog.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder wires best-effort usage telemetry.
func WithRecorder(r *usage.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithMetrics wires decision counters.
func WithMetrics(m *usage.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the enforcer. Panics if store, limits, or catalog is nil:
// these are wiring mistakes, not runtime conditions.
func NewService(store ledger.Store, limits planlimit.Service, catalog Catalog, opts ...Option) *Service {
	if store == nil {
		panic("entitlement: ledger store cannot be nil")
	}
	if limits == nil {
		panic("entitlement: plan limit service cannot be nil")
	}
	if catalog == nil {
		panic("entitlement: plan catalog cannot be nil")
	}

	s := &Service{
		store:   store,
		limits:  limits,
		catalog: catalog.Clone(),
		log:     slog.Default(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enforce decides whether the tenant may perform quantity units of the usage
// type and, when the type consumes quota, atomically debits the ledger.
// Denials come back as structured decisions with a reason code; only store
// failures are returned as errors.
func (s *Service) Enforce(ctx context.Context, sub *subscription.Subscription, usageType UsageType, quantity int64, metadata map[string]any) (Decision, error) {
	// 1. Validate inputs. Fails closed with zero side effects.
	if sub == nil || sub.TenantID == uuid.Nil || quantity <= 0 || !usageType.IsValid() {
		return s.deny(usageType, ReasonInvalidUsageType, 0), nil
	}

	// 2. Non-consuming types bypass the engine entirely.
	if usageType.IsNonConsuming() {
		s.observe(usageType, ReasonNonConsuming)
		return Decision{Allow: true, Reason: ReasonNonConsuming, Remaining: UnlimitedRemaining}, nil
	}

	// 3. The usage type's pool and metric mappings drive everything below.
	metric, _ := usageType.Metric()

	// 4. Tenant must be operable before any mutation happens.
	if !sub.IsOperable() {
		return s.deny(usageType, ReasonSubscriptionInactive, 0), nil
	}

	// 5. Resolve or create the billing window, rolling over yearly allotments.
	reason, err := s.ensurePeriod(ctx, sub)
	if err != nil {
		return Decision{}, err
	}
	if reason != "" {
		return s.deny(usageType, reason, 0), nil
	}

	// 6. Plan limit for the metric: hard caps block, soft caps flag.
	ev, err := s.limits.Evaluate(ctx, sub.TenantID, sub.PlanID, metric, quantity)
	if err != nil {
		if errors.Is(err, planlimit.ErrPlanNotFound) {
			return s.deny(usageType, ReasonNoActiveSubscription, 0), nil
		}
		return Decision{}, err
	}
	if !ev.Allowed {
		return s.deny(usageType, ReasonPlanLimitReached, ev.Remaining), nil
	}
	if ev.Exceeded {
		s.log.WarnContext(ctx, "soft plan limit exceeded",
			"tenant_id", sub.TenantID,
			"metric", metric,
			"limit", ev.Limit,
			"current_usage", ev.CurrentUsage,
			"quantity", quantity)
		s.record(ctx, sub.TenantID, "soft_limit_exceeded."+string(metric), quantity, metadata)
	}

	kind, consumes := usageType.Kind()
	if !consumes {
		// Limit-gated only (seat activations): nothing to debit.
		s.observe(usageType, ReasonAllowed)
		return Decision{Allow: true, Reason: ReasonAllowed, Remaining: ev.Remaining}, nil
	}

	// 7. Atomic all-or-nothing consumption, base pool first.
	reservationID := uuid.New()
	balance, err := s.store.Consume(ctx, sub.TenantID, kind, quantity, reservationID)
	switch {
	case err == nil:
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return s.deny(usageType, ReasonQuotaExceeded, balance.Total()), nil
	case errors.Is(err, ledger.ErrBalanceNotFound):
		return s.deny(usageType, ReasonQuotaExceeded, 0), nil
	default:
		return Decision{}, err
	}

	// 8. Best-effort telemetry; failures never affect the decision.
	s.record(ctx, sub.TenantID, string(metric), quantity, metadata)
	s.observe(usageType, ReasonAllowed)
	if s.metrics != nil {
		s.metrics.ObserveConsumed(string(kind), quantity)
	}

	return Decision{
		Allow:         true,
		Reason:        ReasonAllowed,
		Remaining:     balance.Total(),
		Consumed:      quantity,
		ReservationID: reservationID,
	}, nil
}

// Commit marks a reservation as generation-confirmed so the reconciliation
// sweep leaves it alone. Call it once the downstream generation succeeded.
func (s *Service) Commit(ctx context.Context, reservationID uuid.UUID) error {
	return s.store.CommitReservation(ctx, reservationID)
}

// Refund reverses a reservation after a downstream generation failure,
// crediting the addon pool first. Pass the reservation ID from the original
// decision so the reconciliation sweep cannot refund the same debit twice;
// nil performs an unmatched credit. A refund for a non-consuming usage type
// is a no-op success.
func (s *Service) Refund(ctx context.Context, tenantID uuid.UUID, usageType UsageType, quantity int64, reservationID *uuid.UUID) (ledger.Balance, error) {
	if tenantID == uuid.Nil || quantity <= 0 || !usageType.IsValid() {
		return ledger.Balance{}, ErrInvalidRefund
	}

	kind, consumes := usageType.Kind()
	if !consumes {
		return ledger.Balance{}, nil
	}

	balance, err := s.store.Refund(ctx, tenantID, kind, quantity, reservationID)
	if err != nil {
		return ledger.Balance{}, err
	}

	s.record(ctx, tenantID, "refund."+string(kind), quantity, nil)
	if s.metrics != nil {
		s.metrics.ObserveRefunded(string(kind), quantity)
	}
	return balance, nil
}

// ensurePeriod resolves the active billing window, creating it on first usage
// in a new window, and applies pending yearly rollover credits. A non-empty
// reason means the tenant has no usable window.
func (s *Service) ensurePeriod(ctx context.Context, sub *subscription.Subscription) (Reason, error) {
	now := s.now()

	if sub.IsTrialing() && sub.IsTrialExpiredAt(now) {
		return ReasonTrialExpired, nil
	}
	if sub.TrialEndsAt == nil {
		// Without a trial anchor there is no cycle to count from.
		return ReasonNoActiveSubscription, nil
	}

	plan, ok := s.catalog.Get(sub.PlanID)
	if !ok {
		return ReasonNoActiveSubscription, nil
	}

	// Reuse the stored window covering now; create one only when absent.
	// Creating unconditionally would re-key the window on every request
	// during trial (the trial anchor is per-subscription, not per-call) and
	// re-seed the base pool each time.
	if _, err := s.store.CurrentPeriod(ctx, sub.TenantID, now); err != nil {
		if !errors.Is(err, ledger.ErrPeriodNotFound) {
			return "", err
		}

		start, end, interval, ok := ledger.ResolvePeriod(sub.CreatedAt, *sub.TrialEndsAt, now, plan.Interval)
		if !ok {
			return ReasonNoActiveSubscription, nil
		}

		period := ledger.Period{
			TenantID: sub.TenantID,
			PlanID:   sub.PlanID,
			Start:    start,
			End:      end,
			Interval: interval,
		}
		if err := s.store.EnsurePeriod(ctx, period, plan.PeriodQuotas); err != nil {
			return "", err
		}
	}

	// Yearly plans fold elapsed monthly allotments into the base pool right
	// before consumption; the store makes concurrent triggers single-credit.
	for kind, allotment := range plan.MonthlyAllotments {
		months, err := s.store.ApplyRollover(ctx, sub.TenantID, kind, allotment, now)
		if err != nil {
			return "", err
		}
		if months > 0 {
			s.log.InfoContext(ctx, "applied quota rollover",
				"tenant_id", sub.TenantID,
				"kind", kind,
				"months", months,
				"credited", int64(months)*allotment)
		}
	}

	return "", nil
}

func (s *Service) deny(usageType UsageType, reason Reason, remaining int64) Decision {
	s.observe(usageType, reason)
	return Decision{Allow: false, Reason: reason, Remaining: remaining}
}

func (s *Service) observe(usageType UsageType, reason Reason) {
	if s.metrics != nil {
		s.metrics.ObserveDecision(string(usageType), string(reason))
	}
}

func (s *Service) record(ctx context.Context, tenantID uuid.UUID, metric string, quantity int64, metadata map[string]any) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(ctx, usage.Event{
		TenantID: tenantID,
		Metric:   metric,
		Quantity: quantity,
		Source:   "entitlement",
		Metadata: metadata,
	})
}
