// Package pg provides the PostgreSQL plumbing shared by the quota ledger:
// pool construction with startup retries, embedded goose migrations, a
// readiness probe, and SQLSTATE classification helpers so stores can map
// driver errors to typed domain errors instead of matching message strings.
//
// Connect opens a *pgxpool.Pool from environment-driven Config. Migrate runs
// goose migrations from an embedded fs.FS over the same pool. Healthcheck
// adapts the pool's ping to the func(context.Context) error shape health
// registries expect.
package pg
