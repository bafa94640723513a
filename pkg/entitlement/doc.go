// Package entitlement is the façade every metered action passes through: it
// decides whether a tenant may consume a resource and debits the quota ledger
// atomically when it may.
//
// A request flows through a fixed sequence: input validation, the
// non-consuming bypass, subscription operability, billing-window resolution
// (with yearly rollover folded in), the plan-limit check, and finally the
// all-or-nothing ledger debit. Every denial is a structured Decision with a
// reason code rather than an error; only store failures surface as errors,
// so callers map outcomes to user-facing responses uniformly.
//
// Generation happens outside this package, so consumption is a reservation:
// the Decision carries a reservation ID that the caller either Commits after
// a successful generation or Refunds after a failure. The window between
// debit and commit is a deliberate tradeoff, bounded by the Reconciler, a
// periodic sweep that refunds reservations nobody resolved within a TTL.
//
// Usage types map onto ledger pools and plan metrics non-uniformly: unit
// labels draw from the unit pool, box/carton/pallet labels share the
// consolidated sscc pool under separate plan metrics, seat activations are
// limit-gated without touching the ledger, and previews and ingestion probes
// bypass the engine entirely.
package entitlement
