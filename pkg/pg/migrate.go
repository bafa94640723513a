package pg

import (
	"context"
	"errors"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies goose SQL migrations from fsys against the pool. The fs is
// expected to have the .sql files at its root; callers embedding a
// migrations/ directory should pass it through fs.Sub first.
//
// The pool is bridged to database/sql because goose speaks the standard
// library interface, not pgx. The bridge shares the pool's connections, so
// closing it does not tear the pool down.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close() //nolint:errcheck // shares connections with the pool

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}
