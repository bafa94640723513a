package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// balanceKey identifies one tenant pool.
type balanceKey struct {
	tenantID uuid.UUID
	kind     Kind
}

type balanceRow struct {
	base       int64
	addon      int64
	rolloverAt time.Time // checkpoint for yearly monthly-allotment credits
}

// MemoryStore is an in-process Store used in tests and single-node setups.
// A single mutex stands in for the storage engine's row-level atomicity, so
// every guarantee the Postgres store provides holds here too.
type MemoryStore struct {
	mu           sync.Mutex
	balances     map[balanceKey]*balanceRow
	periods      map[uuid.UUID][]Period
	reservations map[uuid.UUID]*Reservation
	now          func() time.Time
}

// NewMemoryStore returns an empty in-memory ledger store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		balances:     make(map[balanceKey]*balanceRow),
		periods:      make(map[uuid.UUID][]Period),
		reservations: make(map[uuid.UUID]*Reservation),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// EnsurePeriod records the window if absent and seeds base balances.
func (s *MemoryStore) EnsurePeriod(ctx context.Context, period Period, quotas map[Kind]int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.periods[period.TenantID] {
		if existing.Start.Equal(period.Start) {
			return nil // idempotent: concurrent caller already created it
		}
	}

	s.periods[period.TenantID] = append(s.periods[period.TenantID], period)

	// Only the creating call resets base pools; addon is never auto-reset.
	for kind, quota := range quotas {
		if !kind.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
		}
		row := s.row(period.TenantID, kind)
		row.base = quota
		row.rolloverAt = period.Start
	}
	return nil
}

// CurrentPeriod returns the stored window containing now.
func (s *MemoryStore) CurrentPeriod(ctx context.Context, tenantID uuid.UUID, now time.Time) (Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.periods[tenantID] {
		if p.Contains(now) {
			return p, nil
		}
	}
	return Period{}, ErrPeriodNotFound
}

// Balance returns the current pools for a tenant kind.
func (s *MemoryStore) Balance(ctx context.Context, tenantID uuid.UUID, kind Kind) (Balance, error) {
	if !kind.IsValid() {
		return Balance{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.balances[balanceKey{tenantID, kind}]
	if !ok {
		return Balance{}, ErrBalanceNotFound
	}
	return Balance{Base: row.base, Addon: row.addon}, nil
}

// Consume atomically debits base first, then addon; all-or-nothing.
func (s *MemoryStore) Consume(ctx context.Context, tenantID uuid.UUID, kind Kind, quantity int64, reservationID uuid.UUID) (Balance, error) {
	if !kind.IsValid() {
		return Balance{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if quantity <= 0 {
		return Balance{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.balances[balanceKey{tenantID, kind}]
	if !ok {
		return Balance{}, ErrBalanceNotFound
	}

	if row.base+row.addon < quantity {
		return Balance{Base: row.base, Addon: row.addon}, ErrInsufficientBalance
	}

	fromBase := min(row.base, quantity)
	row.base -= fromBase
	row.addon -= quantity - fromBase

	now := s.now()
	s.reservations[reservationID] = &Reservation{
		ID:        reservationID,
		TenantID:  tenantID,
		Kind:      kind,
		Quantity:  quantity,
		Status:    ReservationReserved,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return Balance{Base: row.base, Addon: row.addon}, nil
}

// Refund credits the addon pool (last-consumed-first heuristic).
func (s *MemoryStore) Refund(ctx context.Context, tenantID uuid.UUID, kind Kind, quantity int64, reservationID *uuid.UUID) (Balance, error) {
	if !kind.IsValid() {
		return Balance{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if quantity <= 0 {
		return Balance{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// When tied to a reservation, the credit only happens together with the
	// reserved->refunded flip. A reservation already resolved (committed, or
	// refunded by a racing caller or sweep) must not credit a second time.
	if reservationID != nil {
		r, ok := s.reservations[*reservationID]
		if !ok || r.Status != ReservationReserved {
			return Balance{}, ErrReservationNotFound
		}
		r.Status = ReservationRefunded
		r.UpdatedAt = s.now()
	}

	row := s.row(tenantID, kind)
	row.addon += quantity

	return Balance{Base: row.base, Addon: row.addon}, nil
}

// Grant credits purchased quota.
func (s *MemoryStore) Grant(ctx context.Context, tenantID uuid.UUID, kind Kind, base, addon int64) (Balance, error) {
	if !kind.IsValid() {
		return Balance{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if base < 0 || addon < 0 {
		return Balance{}, fmt.Errorf("%w: base=%d addon=%d", ErrInvalidQuantity, base, addon)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.row(tenantID, kind)
	row.base += base
	row.addon += addon
	return Balance{Base: row.base, Addon: row.addon}, nil
}

// ApplyRollover credits whole elapsed months of allotment and advances the
// checkpoint in the same critical section, so concurrent triggers observe
// either the pre- or post-rollover state but never credit twice.
func (s *MemoryStore) ApplyRollover(ctx context.Context, tenantID uuid.UUID, kind Kind, monthlyAllotment int64, now time.Time) (int, error) {
	if !kind.IsValid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if monthlyAllotment < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidQuantity, monthlyAllotment)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.balances[balanceKey{tenantID, kind}]
	if !ok {
		return 0, ErrBalanceNotFound
	}

	months := MonthsElapsed(row.rolloverAt, now)
	if months == 0 {
		return 0, nil
	}

	row.base += int64(months) * monthlyAllotment
	row.rolloverAt = row.rolloverAt.AddDate(0, months, 0)
	return months, nil
}

// CommitReservation marks a reservation as generation-confirmed.
func (s *MemoryStore) CommitReservation(ctx context.Context, reservationID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reservations[reservationID]
	if !ok || r.Status != ReservationReserved {
		return ErrReservationNotFound
	}
	r.Status = ReservationCommitted
	r.UpdatedAt = s.now()
	return nil
}

// StaleReservations lists reserved-state reservations created before cutoff.
func (s *MemoryStore) StaleReservations(ctx context.Context, cutoff time.Time, limit int) ([]Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stale := make([]Reservation, 0)
	for _, r := range s.reservations {
		if r.Status == ReservationReserved && r.CreatedAt.Before(cutoff) {
			stale = append(stale, *r)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].CreatedAt.Before(stale[j].CreatedAt) })
	if limit > 0 && len(stale) > limit {
		stale = stale[:limit]
	}
	return stale, nil
}

// Reservation returns a stored reservation by ID, for tests and tooling.
func (s *MemoryStore) Reservation(id uuid.UUID) (Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reservations[id]
	if !ok {
		return Reservation{}, false
	}
	return *r, true
}

// SetRolloverCheckpoint overrides the rollover checkpoint for a tenant kind.
// Test hook for simulating elapsed unrolled-over months.
func (s *MemoryStore) SetRolloverCheckpoint(tenantID uuid.UUID, kind Kind, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.row(tenantID, kind).rolloverAt = at
}

// row returns the balance row for a key, creating a zero row if absent.
// Callers must hold the mutex.
func (s *MemoryStore) row(tenantID uuid.UUID, kind Kind) *balanceRow {
	key := balanceKey{tenantID, kind}
	row, ok := s.balances[key]
	if !ok {
		row = &balanceRow{rolloverAt: s.now()}
		s.balances[key] = row
	}
	return row
}
