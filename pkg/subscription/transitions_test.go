package subscription_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labelgrid/entitlements/pkg/subscription"
)

// allowed mirrors the lifecycle table as adjacency lists so the test fails
// loudly if either side drifts.
var allowed = map[subscription.Status][]subscription.Status{
	subscription.StatusTrial: {
		subscription.StatusTrialing, subscription.StatusActive,
		subscription.StatusPending, subscription.StatusExpired,
	},
	subscription.StatusTrialing: {
		subscription.StatusTrial, subscription.StatusActive,
		subscription.StatusPending, subscription.StatusExpired,
	},
	subscription.StatusPending: {
		subscription.StatusActive, subscription.StatusCancelled, subscription.StatusExpired,
	},
	subscription.StatusActive: {
		subscription.StatusPaused, subscription.StatusCancelled,
		subscription.StatusExpired, subscription.StatusPending,
	},
	subscription.StatusPaused: {
		subscription.StatusActive, subscription.StatusCancelled, subscription.StatusExpired,
	},
	subscription.StatusCancelled: {
		subscription.StatusActive, subscription.StatusPending,
	},
	subscription.StatusExpired: {
		subscription.StatusActive, subscription.StatusPending, subscription.StatusTrial,
	},
}

func contains(list []subscription.Status, s subscription.Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestIsValidTransition_FullGrid(t *testing.T) {
	t.Parallel()

	// Every (from, to) pair, including self-transitions, must match the table.
	pairs := 0
	for _, from := range subscription.Statuses {
		for _, to := range subscription.Statuses {
			pairs++
			want := contains(allowed[from], to)
			got := subscription.IsValidTransition(from, to)
			assert.Equal(t, want, got, "transition %s -> %s", from, to)
		}
	}
	require.Equal(t, 49, pairs)
}

func TestIsValidTransition_SelfTransitionsRejected(t *testing.T) {
	t.Parallel()

	for _, s := range subscription.Statuses {
		assert.False(t, subscription.IsValidTransition(s, s), "self-transition %s", s)
	}
}

func TestIsValidTransition_UnknownStatus(t *testing.T) {
	t.Parallel()

	assert.False(t, subscription.IsValidTransition(subscription.Status("bogus"), subscription.StatusActive))
	assert.False(t, subscription.IsValidTransition(subscription.StatusActive, subscription.Status("bogus")))
}

func TestValidTransitionsFrom(t *testing.T) {
	t.Parallel()

	got := subscription.ValidTransitionsFrom(subscription.StatusCancelled)
	require.Equal(t, []subscription.Status{
		subscription.StatusActive,
		subscription.StatusPending,
	}, got)

	// Deterministic ordering across calls.
	require.Equal(t, got, subscription.ValidTransitionsFrom(subscription.StatusCancelled))

	assert.Empty(t, subscription.ValidTransitionsFrom(subscription.Status("bogus")))
}
