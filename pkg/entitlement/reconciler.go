package entitlement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/labelgrid/entitlements/pkg/ledger"
	"github.com/labelgrid/entitlements/pkg/usage"
)

// Reconciler periodically refunds reservations that were neither committed
// nor refunded within a TTL. A failed downstream generation whose caller also
// failed to compensate leaves the ledger over-debited; this sweep closes that
// gap. Refunds go through the store's atomic refund with the reservation ID,
// so a sweep racing a late caller refund credits at most once.
type Reconciler struct {
	store    ledger.Store
	metrics  *usage.Metrics
	log      *slog.Logger
	ttl      time.Duration
	interval time.Duration
	batch    int
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithReservationTTL sets how long a reservation may stay uncommitted before
// the sweep refunds it. Must comfortably exceed the slowest generation path.
func WithReservationTTL(d time.Duration) ReconcilerOption {
	return func(r *Reconciler) {
		if d > 0 {
			r.ttl = d
		}
	}
}

// WithSweepInterval sets how often the sweep runs.
func WithSweepInterval(d time.Duration) ReconcilerOption {
	return func(r *Reconciler) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithBatchSize caps reservations processed per sweep.
func WithBatchSize(n int) ReconcilerOption {
	return func(r *Reconciler) {
		if n > 0 {
			r.batch = n
		}
	}
}

// WithReconcilerLogger sets the logger.
func WithReconcilerLogger(log *slog.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		if log != nil {
			r.log = log
		}
	}
}

// WithReconcilerMetrics wires refund counters.
func WithReconcilerMetrics(m *usage.Metrics) ReconcilerOption {
	return func(r *Reconciler) { r.metrics = m }
}

// NewReconciler creates a sweep over the given store. Panics if store is nil.
func NewReconciler(store ledger.Store, opts ...ReconcilerOption) *Reconciler {
	if store == nil {
		panic("entitlement: ledger store cannot be nil")
	}

	r := &Reconciler{
		store:    store,
		log:      slog.Default(),
		ttl:      15 * time.Minute,
		interval: time.Minute,
		batch:    100,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run sweeps on the configured interval until the context is cancelled.
// Blocking: run it in its own goroutine.
func (r *Reconciler) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.Sweep(ctx); err != nil {
				r.log.ErrorContext(ctx, "reconciliation sweep failed", "error", err)
			}
		}
	}
}

// Sweep refunds one batch of stale reservations and returns how many it
// compensated. Individual refund failures are logged and skipped; the
// reservation stays reserved and the next sweep retries it.
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-r.ttl)

	stale, err := r.store.StaleReservations(ctx, cutoff, r.batch)
	if err != nil {
		return 0, err
	}

	refunded := 0
	for _, res := range stale {
		if _, err := r.store.Refund(ctx, res.TenantID, res.Kind, res.Quantity, &res.ID); err != nil {
			if errors.Is(err, ledger.ErrReservationNotFound) {
				// A caller's refund resolved it after the listing.
				continue
			}
			r.log.ErrorContext(ctx, "failed to refund stale reservation",
				"reservation_id", res.ID,
				"tenant_id", res.TenantID,
				"kind", res.Kind,
				"quantity", res.Quantity,
				"error", err)
			continue
		}

		refunded++
		if r.metrics != nil {
			r.metrics.ObserveRefunded(string(res.Kind), res.Quantity)
		}
		r.log.InfoContext(ctx, "refunded stale reservation",
			"reservation_id", res.ID,
			"tenant_id", res.TenantID,
			"kind", res.Kind,
			"quantity", res.Quantity,
			"age", time.Since(res.CreatedAt).Round(time.Second))
	}
	return refunded, nil
}
