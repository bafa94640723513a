// Package usage records metered-action telemetry for the entitlement engine.
//
// Usage events form an append-only log consumed by dashboards and billing
// aggregation. The write path is deliberately best-effort: the Recorder hands
// events to a background worker through a bounded buffer and drops them when
// the buffer is full, so telemetry can never block or fail an entitlement
// decision. Sink errors are logged and swallowed.
//
// Two sinks ship with the package: MemoryStorage for tests and RedisStorage,
// which appends to a capped Redis stream. A Prometheus Metrics collector
// covers the counters side of observability.
package usage
