package ledger

import (
	"context"
	"embed"
	"errors"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labelgrid/entitlements/pkg/pg"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrFailedToApplyMigrations wraps any goose failure during Migrate.
var ErrFailedToApplyMigrations = errors.New("ledger.errors.failed_to_apply_migrations")

// Migrate applies the ledger schema migrations embedded in the package.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	if err := pg.Migrate(ctx, pool, fsys); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}
