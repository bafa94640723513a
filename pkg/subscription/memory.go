package subscription

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests and single-process setups.
type MemoryStore struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]Subscription
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subs: make(map[uuid.UUID]Subscription)}
}

// Get returns a copy of the stored subscription so callers cannot mutate
// shared state.
func (s *MemoryStore) Get(ctx context.Context, tenantID uuid.UUID) (*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[tenantID]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}
	copied := sub
	return &copied, nil
}

// Save stores a copy keyed by tenant ID, creating or replacing.
func (s *MemoryStore) Save(ctx context.Context, sub *Subscription) error {
	if sub == nil || sub.TenantID == uuid.Nil {
		return ErrInvalidSubscription
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.subs[sub.TenantID] = *sub
	return nil
}
