package planlimit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labelgrid/entitlements/pkg/planlimit"
)

func testPlans() map[string]planlimit.PlanLimits {
	return map[string]planlimit.PlanLimits{
		"starter": {
			PlanID: "starter",
			Limits: map[planlimit.Metric]planlimit.Limit{
				planlimit.MetricUnitLabels: {Value: 10, Type: planlimit.LimitHard},
				planlimit.MetricBoxLabels:  {Value: 10, Type: planlimit.LimitSoft},
				planlimit.MetricSeats:      {Value: 3, Type: planlimit.LimitHard},
			},
		},
		"enterprise": {
			PlanID: "enterprise",
			Limits: map[planlimit.Metric]planlimit.Limit{
				planlimit.MetricUnitLabels: {Value: planlimit.Unlimited, Type: planlimit.LimitHard},
				planlimit.MetricBoxLabels:  {Value: 500, Type: planlimit.LimitNone},
			},
		},
	}
}

func staticCounter(n int64) planlimit.CounterFunc {
	return func(ctx context.Context, tenantID uuid.UUID) (int64, error) {
		return n, nil
	}
}

func newService(t *testing.T, usage int64) planlimit.Service {
	t.Helper()

	counters := planlimit.NewRegistry()
	counters.Register(planlimit.MetricUnitLabels, staticCounter(usage))
	counters.Register(planlimit.MetricBoxLabels, staticCounter(usage))
	counters.Register(planlimit.MetricSeats, staticCounter(usage))

	svc, err := planlimit.NewService(context.Background(), planlimit.NewInMemSource(testPlans()), counters)
	require.NoError(t, err)
	return svc
}

func TestService_Evaluate_HardLimit(t *testing.T) {
	t.Parallel()

	// limit=10, current=8: requesting 3 blocks, requesting 2 passes
	svc := newService(t, 8)
	tenantID := uuid.New()

	ev, err := svc.Evaluate(context.Background(), tenantID, "starter", planlimit.MetricUnitLabels, 3)
	require.NoError(t, err)
	assert.False(t, ev.Allowed)
	assert.False(t, ev.Exceeded)
	assert.Equal(t, int64(2), ev.Remaining)
	assert.Equal(t, int64(10), ev.Limit)

	ev, err = svc.Evaluate(context.Background(), tenantID, "starter", planlimit.MetricUnitLabels, 2)
	require.NoError(t, err)
	assert.True(t, ev.Allowed)
	assert.False(t, ev.Exceeded)
}

func TestService_Evaluate_SoftLimit(t *testing.T) {
	t.Parallel()

	// Same numbers as the hard-limit case: both requests allowed, excess flagged.
	svc := newService(t, 8)
	tenantID := uuid.New()

	ev, err := svc.Evaluate(context.Background(), tenantID, "starter", planlimit.MetricBoxLabels, 3)
	require.NoError(t, err)
	assert.True(t, ev.Allowed)
	assert.True(t, ev.Exceeded)

	ev, err = svc.Evaluate(context.Background(), tenantID, "starter", planlimit.MetricBoxLabels, 2)
	require.NoError(t, err)
	assert.True(t, ev.Allowed)
	assert.False(t, ev.Exceeded)
}

func TestService_Evaluate_Uncapped(t *testing.T) {
	t.Parallel()

	svc := newService(t, 1_000_000)
	tenantID := uuid.New()

	t.Run("unlimited value", func(t *testing.T) {
		t.Parallel()
		ev, err := svc.Evaluate(context.Background(), tenantID, "enterprise", planlimit.MetricUnitLabels, 99999)
		require.NoError(t, err)
		assert.True(t, ev.Allowed)
		assert.Equal(t, planlimit.Unlimited, ev.Remaining)
	})

	t.Run("limit type none", func(t *testing.T) {
		t.Parallel()
		ev, err := svc.Evaluate(context.Background(), tenantID, "enterprise", planlimit.MetricBoxLabels, 99999)
		require.NoError(t, err)
		assert.True(t, ev.Allowed)
	})

	t.Run("metric absent from plan", func(t *testing.T) {
		t.Parallel()
		ev, err := svc.Evaluate(context.Background(), tenantID, "enterprise", planlimit.MetricPalletLabels, 5)
		require.NoError(t, err)
		assert.True(t, ev.Allowed)
	})
}

func TestService_Evaluate_Errors(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()

	t.Run("unknown plan", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, 0)
		_, err := svc.Evaluate(context.Background(), tenantID, "ghost", planlimit.MetricUnitLabels, 1)
		require.ErrorIs(t, err, planlimit.ErrPlanNotFound)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, 0)
		_, err := svc.Evaluate(context.Background(), tenantID, "starter", planlimit.MetricUnitLabels, 0)
		require.ErrorIs(t, err, planlimit.ErrInvalidQuantity)
	})

	t.Run("missing counter", func(t *testing.T) {
		t.Parallel()
		svc, err := planlimit.NewService(context.Background(), planlimit.NewInMemSource(testPlans()), planlimit.NewRegistry())
		require.NoError(t, err)
		_, err = svc.Evaluate(context.Background(), tenantID, "starter", planlimit.MetricUnitLabels, 1)
		require.ErrorIs(t, err, planlimit.ErrNoCounterRegistered)
	})

	t.Run("counter failure is wrapped", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("usage store down")
		counters := planlimit.NewRegistry()
		counters.Register(planlimit.MetricUnitLabels, func(ctx context.Context, tenantID uuid.UUID) (int64, error) {
			return 0, boom
		})
		svc, err := planlimit.NewService(context.Background(), planlimit.NewInMemSource(testPlans()), counters)
		require.NoError(t, err)

		_, err = svc.Evaluate(context.Background(), tenantID, "starter", planlimit.MetricUnitLabels, 1)
		require.ErrorIs(t, err, planlimit.ErrFailedToCountUsage)
		require.ErrorIs(t, err, boom)
	})
}

func TestNewService_ValidatesPlans(t *testing.T) {
	t.Parallel()

	bad := map[string]planlimit.PlanLimits{
		"broken": {
			PlanID: "broken",
			Limits: map[planlimit.Metric]planlimit.Limit{
				planlimit.MetricUnitLabels: {Value: 10, Type: "fuzzy"},
			},
		},
	}

	_, err := planlimit.NewService(context.Background(), planlimit.NewInMemSource(bad), nil)
	require.ErrorIs(t, err, planlimit.ErrInvalidPlanConfiguration)
}

func TestService_VerifyPlan(t *testing.T) {
	t.Parallel()

	svc := newService(t, 0)
	require.NoError(t, svc.VerifyPlan(context.Background(), "starter"))
	require.ErrorIs(t, svc.VerifyPlan(context.Background(), "ghost"), planlimit.ErrPlanNotFound)
}
