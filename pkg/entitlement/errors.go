package entitlement

import "errors"

var (
	// ErrInvalidRefund rejects malformed compensation requests: unknown usage
	// type, zero tenant, or non-positive quantity.
	ErrInvalidRefund = errors.New("entitlement.errors.invalid_refund")
)
