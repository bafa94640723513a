package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labelgrid/entitlements/pkg/pg"
)

// PostgresStore implements Store on a pgx connection pool. Every mutation is
// either a single statement or a short row-locking transaction, so the
// atomicity guarantees the Store contract demands come from the database, not
// from process-local locks.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Store backed by the given pool.
// Run Migrate first to create the ledger tables.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsurePeriod inserts the billing window if absent and, only when this call
// created it, resets base balances to the plan quotas. The ON CONFLICT guard
// makes concurrent first-usage checks in a new window safe.
func (s *PostgresStore) EnsurePeriod(ctx context.Context, period Period, quotas map[Kind]int64) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	tag, err := tx.Exec(ctx, `
		INSERT INTO billing_periods (tenant_id, plan_id, period_start, period_end, billing_interval)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant_id, period_start) DO NOTHING`,
		period.TenantID, period.PlanID, period.Start, period.End, period.Interval)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	if tag.RowsAffected() == 0 {
		// Another caller already created this window; nothing to seed.
		return nil
	}

	for kind, quota := range quotas {
		if !kind.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO quota_balances (tenant_id, kind, base_balance, addon_balance, rollover_at)
			VALUES ($1, $2, $3, 0, $4)
			ON CONFLICT (tenant_id, kind) DO UPDATE
			SET base_balance = EXCLUDED.base_balance,
			    rollover_at  = EXCLUDED.rollover_at,
			    updated_at   = now()`,
			period.TenantID, kind, quota, period.Start); err != nil {
			return errors.Join(ErrStoreFailure, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

// CurrentPeriod returns the stored window containing now.
func (s *PostgresStore) CurrentPeriod(ctx context.Context, tenantID uuid.UUID, now time.Time) (Period, error) {
	var p Period
	err := s.pool.QueryRow(ctx, `
		SELECT tenant_id, plan_id, period_start, period_end, billing_interval
		FROM billing_periods
		WHERE tenant_id = $1 AND period_start <= $2 AND period_end > $2
		ORDER BY period_start DESC
		LIMIT 1`,
		tenantID, now).Scan(&p.TenantID, &p.PlanID, &p.Start, &p.End, &p.Interval)
	if err != nil {
		if pg.IsNotFound(err) {
			return Period{}, ErrPeriodNotFound
		}
		return Period{}, errors.Join(ErrStoreFailure, err)
	}
	return p, nil
}

// Balance returns the current pools for a tenant kind.
func (s *PostgresStore) Balance(ctx context.Context, tenantID uuid.UUID, kind Kind) (Balance, error) {
	if !kind.IsValid() {
		return Balance{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	var b Balance
	err := s.pool.QueryRow(ctx, `
		SELECT base_balance, addon_balance
		FROM quota_balances
		WHERE tenant_id = $1 AND kind = $2`,
		tenantID, kind).Scan(&b.Base, &b.Addon)
	if err != nil {
		if pg.IsNotFound(err) {
			return Balance{}, ErrBalanceNotFound
		}
		return Balance{}, errors.Join(ErrStoreFailure, err)
	}
	return b, nil
}

// Consume debits base first, then addon, and records the reservation, all in
// one statement. The balance guard in the WHERE clause is what makes two
// racing consumers of a near-exhausted pool serialize correctly: the second
// one re-evaluates against the committed row and matches zero rows.
func (s *PostgresStore) Consume(ctx context.Context, tenantID uuid.UUID, kind Kind, quantity int64, reservationID uuid.UUID) (Balance, error) {
	if !kind.IsValid() {
		return Balance{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if quantity <= 0 {
		return Balance{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	var b Balance
	err := s.pool.QueryRow(ctx, `
		WITH debit AS (
			UPDATE quota_balances
			SET base_balance  = base_balance - LEAST(base_balance, $3),
			    addon_balance = addon_balance - ($3 - LEAST(base_balance, $3)),
			    updated_at    = now()
			WHERE tenant_id = $1 AND kind = $2
			  AND base_balance + addon_balance >= $3
			RETURNING base_balance, addon_balance
		), reservation AS (
			INSERT INTO quota_reservations (id, tenant_id, kind, quantity, status)
			SELECT $4, $1, $2, $3, 'reserved' FROM debit
		)
		SELECT base_balance, addon_balance FROM debit`,
		tenantID, kind, quantity, reservationID).Scan(&b.Base, &b.Addon)
	if err == nil {
		return b, nil
	}
	if pg.IsCheckViolation(err) {
		// The non-negative balance checks rejected the debit.
		current, berr := s.Balance(ctx, tenantID, kind)
		if berr != nil {
			return Balance{}, berr
		}
		return current, ErrInsufficientBalance
	}
	if !pg.IsNotFound(err) {
		return Balance{}, errors.Join(ErrStoreFailure, err)
	}

	// Zero rows: either the tenant has no ledger row or the combined balance
	// was insufficient. Disambiguate for the caller's reason-code mapping.
	current, berr := s.Balance(ctx, tenantID, kind)
	if berr != nil {
		return Balance{}, berr
	}
	return current, ErrInsufficientBalance
}

// Refund credits the addon pool, creating the ledger row when absent. When a
// reservation ID is supplied the credit happens only together with flipping
// that reservation to refunded; an already-resolved reservation returns
// ErrReservationNotFound with nothing credited.
func (s *PostgresStore) Refund(ctx context.Context, tenantID uuid.UUID, kind Kind, quantity int64, reservationID *uuid.UUID) (Balance, error) {
	if !kind.IsValid() {
		return Balance{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if quantity <= 0 {
		return Balance{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Balance{}, errors.Join(ErrStoreFailure, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	// The reserved->refunded flip gates the credit: when two refunds race
	// on the same reservation, the loser matches zero rows here and the
	// quota is credited exactly once.
	if reservationID != nil {
		tag, err := tx.Exec(ctx, `
			UPDATE quota_reservations
			SET status = 'refunded', updated_at = now()
			WHERE id = $1 AND status = 'reserved'`,
			*reservationID)
		if err != nil {
			return Balance{}, errors.Join(ErrStoreFailure, err)
		}
		if tag.RowsAffected() == 0 {
			return Balance{}, ErrReservationNotFound
		}
	}

	var b Balance
	err = tx.QueryRow(ctx, `
		INSERT INTO quota_balances (tenant_id, kind, base_balance, addon_balance)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (tenant_id, kind) DO UPDATE
		SET addon_balance = quota_balances.addon_balance + EXCLUDED.addon_balance,
		    updated_at    = now()
		RETURNING base_balance, addon_balance`,
		tenantID, kind, quantity).Scan(&b.Base, &b.Addon)
	if err != nil {
		return Balance{}, errors.Join(ErrStoreFailure, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Balance{}, errors.Join(ErrStoreFailure, err)
	}
	return b, nil
}

// Grant credits purchased quota.
func (s *PostgresStore) Grant(ctx context.Context, tenantID uuid.UUID, kind Kind, base, addon int64) (Balance, error) {
	if !kind.IsValid() {
		return Balance{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if base < 0 || addon < 0 {
		return Balance{}, fmt.Errorf("%w: base=%d addon=%d", ErrInvalidQuantity, base, addon)
	}

	var b Balance
	err := s.pool.QueryRow(ctx, `
		INSERT INTO quota_balances (tenant_id, kind, base_balance, addon_balance)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id, kind) DO UPDATE
		SET base_balance  = quota_balances.base_balance + EXCLUDED.base_balance,
		    addon_balance = quota_balances.addon_balance + EXCLUDED.addon_balance,
		    updated_at    = now()
		RETURNING base_balance, addon_balance`,
		tenantID, kind, base, addon).Scan(&b.Base, &b.Addon)
	if err != nil {
		return Balance{}, errors.Join(ErrStoreFailure, err)
	}
	return b, nil
}

// ApplyRollover locks the balance row, computes whole months elapsed since
// the checkpoint, and credits them while advancing the checkpoint. The row
// lock serializes concurrent triggers: the loser recomputes against the
// advanced checkpoint and credits nothing.
func (s *PostgresStore) ApplyRollover(ctx context.Context, tenantID uuid.UUID, kind Kind, monthlyAllotment int64, now time.Time) (int, error) {
	if !kind.IsValid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if monthlyAllotment < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidQuantity, monthlyAllotment)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, errors.Join(ErrStoreFailure, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	var checkpoint time.Time
	err = tx.QueryRow(ctx, `
		SELECT rollover_at
		FROM quota_balances
		WHERE tenant_id = $1 AND kind = $2
		FOR UPDATE`,
		tenantID, kind).Scan(&checkpoint)
	if err != nil {
		if pg.IsNotFound(err) {
			return 0, ErrBalanceNotFound
		}
		return 0, errors.Join(ErrStoreFailure, err)
	}

	months := MonthsElapsed(checkpoint, now.UTC())
	if months == 0 {
		return 0, tx.Commit(ctx)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE quota_balances
		SET base_balance = base_balance + $3,
		    rollover_at  = $4,
		    updated_at   = now()
		WHERE tenant_id = $1 AND kind = $2`,
		tenantID, kind, int64(months)*monthlyAllotment, checkpoint.AddDate(0, months, 0)); err != nil {
		return 0, errors.Join(ErrStoreFailure, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, errors.Join(ErrStoreFailure, err)
	}
	return months, nil
}

// CommitReservation marks a reservation as generation-confirmed.
func (s *PostgresStore) CommitReservation(ctx context.Context, reservationID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE quota_reservations
		SET status = 'committed', updated_at = now()
		WHERE id = $1 AND status = 'reserved'`,
		reservationID)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// StaleReservations lists reserved-state reservations created before cutoff,
// oldest first.
func (s *PostgresStore) StaleReservations(ctx context.Context, cutoff time.Time, limit int) ([]Reservation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, kind, quantity, status, created_at, updated_at
		FROM quota_reservations
		WHERE status = 'reserved' AND created_at < $1
		ORDER BY created_at
		LIMIT $2`,
		cutoff, limit)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	defer rows.Close()

	var stale []Reservation
	for rows.Next() {
		var r Reservation
		if err := rows.Scan(&r.ID, &r.TenantID, &r.Kind, &r.Quantity, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, errors.Join(ErrStoreFailure, err)
		}
		stale = append(stale, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return stale, nil
}
