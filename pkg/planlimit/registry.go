package planlimit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CounterFunc returns the current period usage for a tenant metric.
// Should be fast: cache or aggregate at repository level.
type CounterFunc func(ctx context.Context, tenantID uuid.UUID) (int64, error)

// CounterRegistry maps a Metric to its CounterFunc.
// Not thread-safe: register all counters at startup only.
type CounterRegistry map[Metric]CounterFunc

// NewRegistry returns a new, empty CounterRegistry.
func NewRegistry() CounterRegistry {
	return make(CounterRegistry)
}

// Register sets or replaces the CounterFunc for the given metric. Panics if fn is nil.
func (r CounterRegistry) Register(m Metric, fn CounterFunc) {
	if fn == nil {
		panic(fmt.Sprintf("planlimit: CounterFunc for metric %q cannot be nil", m))
	}
	r[m] = fn
}
