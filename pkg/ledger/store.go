package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the persistent quota ledger. Implementations must make every
// mutation a single atomic read-modify-write: two concurrent consumers racing
// the same near-exhausted balance must never both succeed, and concurrent
// rollover triggers must never credit the same elapsed window twice.
// Tenants are fully independent, so implementations may shard on tenant ID.
type Store interface {
	// EnsurePeriod records the billing window covering period.Start if absent,
	// seeding each kind's base balance with the given plan quota. The upsert
	// is idempotent: concurrent callers never create duplicates, and only the
	// creating call resets base balances. Addon balances are never touched.
	EnsurePeriod(ctx context.Context, period Period, quotas map[Kind]int64) error

	// CurrentPeriod returns the stored window containing now, or
	// ErrPeriodNotFound when no window covers it.
	CurrentPeriod(ctx context.Context, tenantID uuid.UUID, now time.Time) (Period, error)

	// Balance returns the current pools for a tenant kind.
	// Returns ErrBalanceNotFound when the tenant has no ledger row yet.
	Balance(ctx context.Context, tenantID uuid.UUID, kind Kind) (Balance, error)

	// Consume atomically debits quantity from the tenant's pools, base first
	// then addon, and records a reservation with the given ID. All-or-nothing:
	// when base+addon < quantity nothing is deducted and
	// ErrInsufficientBalance is returned. Returns the balance after the debit.
	Consume(ctx context.Context, tenantID uuid.UUID, kind Kind, quantity int64, reservationID uuid.UUID) (Balance, error)

	// Refund atomically credits quantity back, addon pool first
	// (last-consumed-first). When reservationID is non-nil the credit is
	// conditional on flipping that reservation from reserved to refunded in
	// the same atomic operation; a reservation that is missing or already
	// resolved returns ErrReservationNotFound with nothing credited, so two
	// refunds racing on one reservation credit exactly once. Returns the
	// balance after the credit.
	Refund(ctx context.Context, tenantID uuid.UUID, kind Kind, quantity int64, reservationID *uuid.UUID) (Balance, error)

	// Grant credits purchased quota: base and/or addon, either may be zero.
	Grant(ctx context.Context, tenantID uuid.UUID, kind Kind, base, addon int64) (Balance, error)

	// ApplyRollover credits monthsElapsed x monthlyAllotment to the base pool
	// for yearly plans and advances the rollover checkpoint by the same number
	// of whole months, all in one atomic operation. Returns the number of
	// months credited; zero when the checkpoint is less than a month old.
	ApplyRollover(ctx context.Context, tenantID uuid.UUID, kind Kind, monthlyAllotment int64, now time.Time) (months int, err error)

	// CommitReservation marks a reservation as generation-confirmed so the
	// reconciliation sweep will not refund it.
	CommitReservation(ctx context.Context, reservationID uuid.UUID) error

	// StaleReservations lists reservations still in the reserved state created
	// before the cutoff. Used by the reconciliation sweep.
	StaleReservations(ctx context.Context, cutoff time.Time, limit int) ([]Reservation, error)
}
