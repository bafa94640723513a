package planlimit

import (
	"context"
	"maps"
	"sync"
)

// Source defines how plan limits are loaded into the service.
type Source interface {
	Load(ctx context.Context) (map[string]PlanLimits, error)
}

// inMemSource implements the Source interface using an in-memory plan map.
type inMemSource struct {
	mu    sync.RWMutex
	plans map[string]PlanLimits
}

// NewInMemSource returns an in-memory Source with a deep copy of the given plans.
// Deep copying prevents external modifications from affecting the source's state.
func NewInMemSource(plans map[string]PlanLimits) Source {
	plansCopy := make(map[string]PlanLimits, len(plans))
	for id, plan := range plans {
		plansCopy[id] = PlanLimits{
			PlanID: plan.PlanID,
			Limits: maps.Clone(plan.Limits),
		}
	}

	return &inMemSource{
		plans: plansCopy,
	}
}

// Load returns a copy of all available plan limits from memory.
func (s *inMemSource) Load(ctx context.Context) (map[string]PlanLimits, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plansCopy := make(map[string]PlanLimits, len(s.plans))
	for id, plan := range s.plans {
		plansCopy[id] = PlanLimits{
			PlanID: plan.PlanID,
			Limits: maps.Clone(plan.Limits),
		}
	}
	return plansCopy, nil
}
