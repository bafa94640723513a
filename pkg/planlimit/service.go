package planlimit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Service evaluates requested quantities against per-plan metric caps.
type Service interface {
	// Evaluate checks whether a tenant on the given plan may use quantity more
	// units of a metric. Hard limits block, soft limits flag, none/unlimited
	// always allow. The zero quantity is rejected as invalid.
	Evaluate(ctx context.Context, tenantID uuid.UUID, planID string, metric Metric, quantity int64) (Evaluation, error)

	// VerifyPlan checks if a plan ID is known.
	VerifyPlan(ctx context.Context, planID string) error
}

// service implements the Service interface.
type service struct {
	// Treated as immutable after initialization; thread-safety depends on
	// no runtime modification.
	plans    map[string]PlanLimits
	counters CounterRegistry
}

// NewService loads plan limits from the source and wires usage counters.
func NewService(ctx context.Context, src Source, counters CounterRegistry) (Service, error) {
	plans, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	if plans == nil {
		plans = make(map[string]PlanLimits)
	}

	if err := validatePlans(plans); err != nil {
		return nil, err
	}

	if counters == nil {
		counters = NewRegistry()
	}

	return &service{
		plans:    plans,
		counters: counters,
	}, nil
}

// Evaluate checks a requested quantity against the plan's cap for a metric.
func (s *service) Evaluate(ctx context.Context, tenantID uuid.UUID, planID string, metric Metric, quantity int64) (Evaluation, error) {
	if quantity <= 0 {
		return Evaluation{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	plan, exists := s.plans[planID]
	if !exists {
		return Evaluation{}, ErrPlanNotFound
	}

	limit, exists := plan.Limits[metric]
	if !exists || limit.Type == LimitNone || limit.Value == Unlimited {
		// No cap configured for this metric.
		return Evaluation{Allowed: true, Limit: Unlimited, Remaining: Unlimited}, nil
	}

	counter, exists := s.counters[metric]
	if !exists {
		return Evaluation{}, ErrNoCounterRegistered
	}

	current, err := counter(ctx, tenantID)
	if err != nil {
		return Evaluation{}, errors.Join(ErrFailedToCountUsage, err)
	}

	ev := Evaluation{
		Allowed:      true,
		Limit:        limit.Value,
		CurrentUsage: current,
		Remaining:    max(0, limit.Value-current),
	}

	if current+quantity > limit.Value {
		switch limit.Type {
		case LimitHard:
			ev.Allowed = false
		case LimitSoft:
			ev.Exceeded = true
		}
	}

	return ev, nil
}

// VerifyPlan checks if a plan ID is known.
func (s *service) VerifyPlan(ctx context.Context, planID string) error {
	if _, exists := s.plans[planID]; !exists {
		return ErrPlanNotFound
	}
	return nil
}

// validatePlans checks plan limit configurations for validity.
func validatePlans(plans map[string]PlanLimits) error {
	for planID, plan := range plans {
		for metric, limit := range plan.Limits {
			switch limit.Type {
			case LimitHard, LimitSoft, LimitNone:
			default:
				return errors.Join(ErrInvalidPlanConfiguration,
					fmt.Errorf("plan %s metric %s has unknown limit type %q", planID, metric, limit.Type))
			}
			if limit.Value < Unlimited {
				return errors.Join(ErrInvalidPlanConfiguration,
					fmt.Errorf("plan %s metric %s has invalid limit value %d", planID, metric, limit.Value))
			}
		}
	}
	return nil
}
