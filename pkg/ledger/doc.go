// Package ledger is the persistent quota-accounting core of the entitlement
// engine: per-tenant balances, billing windows, rollover, and the reservation
// log that backs the reserve/compensate protocol.
//
// Each tenant carries two independent quota pools ("kinds"): unit labels and
// the consolidated sscc pool that box, carton, and pallet labels all draw
// from. Each pool splits into a base balance, granted by the plan and reset
// or rolled over at period boundaries, and an addon balance, purchased
// separately and never auto-reset. Both pools are non-negative at all times;
// consumption debits base first, refunds credit addon first.
//
// Coordination happens entirely inside the store: handlers share no process
// memory, so Consume, Refund, and ApplyRollover must each be a single atomic
// read-modify-write. Two implementations are provided: PostgresStore, where
// the guarantees come from row locks and guarded single-statement updates,
// and MemoryStore for tests and single-node use.
//
// Billing windows are created lazily: the first usage check in a new window
// calls EnsurePeriod, an idempotent upsert keyed by tenant and period start.
// ResolvePeriod computes the window purely from the trial anchor dates, so
// concurrent callers always agree on the boundaries.
package ledger
