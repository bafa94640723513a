// Package proration computes day-weighted credits and charges for mid-cycle
// plan changes. The calculation is pure: callers apply downgrade credits to
// the tenant's credit balance and collect upgrade charges through the payment
// flow, both outside this package.
package proration

import (
	"errors"
	"fmt"
	"math"
)

// Calculation errors
var (
	ErrNegativePrice        = errors.New("proration.errors.negative_price")
	ErrInvalidTotalDays     = errors.New("proration.errors.invalid_total_days")
	ErrInvalidRemainingDays = errors.New("proration.errors.invalid_remaining_days")
)

// Result is the outcome of a proration calculation. Amounts are in the
// smallest currency unit and exactly one of Credit/Charge is non-zero unless
// the change nets out.
type Result struct {
	Credit int64   // owed to the tenant on downgrade
	Charge int64   // owed by the tenant on upgrade
	Ratio  float64 // remaining fraction of the billing cycle
	IsZero bool    // no money moves
}

// Calculate returns the day-weighted net of switching from oldPrice to
// newPrice with remainingDays left of a totalDays cycle. Each price is spread
// evenly across the cycle; the net of the two daily rates over the remaining
// days becomes a charge when positive and a credit when negative. Rounding is
// half away from zero on the net amount.
func Calculate(oldPrice, newPrice int64, remainingDays, totalDays int) (Result, error) {
	if oldPrice < 0 || newPrice < 0 {
		return Result{}, fmt.Errorf("%w: old=%d new=%d", ErrNegativePrice, oldPrice, newPrice)
	}
	if totalDays <= 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidTotalDays, totalDays)
	}
	if remainingDays < 0 || remainingDays > totalDays {
		return Result{}, fmt.Errorf("%w: %d of %d", ErrInvalidRemainingDays, remainingDays, totalDays)
	}

	ratio := float64(remainingDays) / float64(totalDays)
	net := math.Round(float64(newPrice-oldPrice) * ratio)

	result := Result{Ratio: ratio}
	switch {
	case net > 0:
		result.Charge = int64(net)
	case net < 0:
		result.Credit = int64(-net)
	default:
		result.IsZero = true
	}
	return result, nil
}
