package ledger

import "errors"

// Typed store results. The ledger never signals quota exhaustion through
// error-message inspection: callers branch on these sentinels.
var (
	ErrInvalidKind         = errors.New("ledger.errors.invalid_kind")
	ErrInvalidQuantity     = errors.New("ledger.errors.invalid_quantity")
	ErrInsufficientBalance = errors.New("ledger.errors.insufficient_balance")
	ErrBalanceNotFound     = errors.New("ledger.errors.balance_not_found")
	ErrPeriodNotFound      = errors.New("ledger.errors.period_not_found")
	ErrReservationNotFound = errors.New("ledger.errors.reservation_not_found")
	ErrStoreFailure        = errors.New("ledger.errors.store_failure")
)
