package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrFailedToOpenConnection  = errors.New("pg.errors.failed_to_open_connection")
	ErrFailedToParseConfig     = errors.New("pg.errors.failed_to_parse_config")
	ErrHealthcheckFailed       = errors.New("pg.errors.healthcheck_failed")
	ErrFailedToApplyMigrations = errors.New("pg.errors.failed_to_apply_migrations")
)

// IsNotFound detects pgx.ErrNoRows for consistent "not found" handling.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation detects a unique constraint violation (SQLSTATE 23505),
// e.g. two workers inserting the same billing window concurrently.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsCheckViolation detects a CHECK constraint violation (SQLSTATE 23514).
// The quota balance tables forbid negative pools, so a violated check on a
// debit means the balance could not cover it.
func IsCheckViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}
