package subscription_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labelgrid/entitlements/pkg/subscription"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := subscription.NewMemoryStore()
	tenantID := uuid.New()

	_, err := store.Get(ctx, tenantID)
	require.ErrorIs(t, err, subscription.ErrSubscriptionNotFound)

	sub := &subscription.Subscription{
		TenantID: tenantID,
		PlanID:   "growth-monthly",
		Status:   subscription.StatusActive,
		Interval: subscription.BillingIntervalMonthly,
	}
	require.NoError(t, store.Save(ctx, sub))

	got, err := store.Get(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, "growth-monthly", got.PlanID)

	// Mutating the returned copy must not leak into the store.
	got.Status = subscription.StatusCancelled
	again, err := store.Get(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusActive, again.Status)

	require.ErrorIs(t, store.Save(ctx, nil), subscription.ErrInvalidSubscription)
	require.ErrorIs(t, store.Save(ctx, &subscription.Subscription{}), subscription.ErrInvalidSubscription)
}
