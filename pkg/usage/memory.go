package usage

import (
	"context"
	"slices"
	"sync"
)

// MemoryStorage is an in-process event sink for tests and development.
type MemoryStorage struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryStorage returns an empty in-memory sink.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store appends the event.
func (s *MemoryStorage) Store(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of all stored events.
func (s *MemoryStorage) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.events)
}
