package ledger

import "time"

// ResolvePeriod computes the billing window containing now for a tenant whose
// trial started at trialStart and ends (or ended) at trialEnd. While the
// trial is running the window is [trialStart, trialEnd]; afterwards paid
// cycles are counted forward from trialEnd in whole steps of the billing
// interval until one contains now. The trial anchor must be stable across
// calls: windows are keyed by their start, so an anchor that moves would
// mint a fresh window (and fresh quota) per request.
//
// Pure and deterministic for given inputs. The zero Period and false are
// returned when now is past the trial end and the interval is not a paid one.
func ResolvePeriod(trialStart, trialEnd, now time.Time, interval Interval) (start, end time.Time, resolved Interval, ok bool) {
	trialStart = trialStart.UTC()
	trialEnd = trialEnd.UTC()
	now = now.UTC()

	if now.Before(trialEnd) {
		start = trialStart
		if start.IsZero() || start.After(now) {
			start = now
		}
		return start, trialEnd, IntervalTrial, true
	}

	var step func(time.Time) time.Time
	switch interval {
	case IntervalMonthly:
		step = func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
	case IntervalYearly:
		step = func(t time.Time) time.Time { return t.AddDate(1, 0, 0) }
	default:
		return time.Time{}, time.Time{}, "", false
	}

	start = trialEnd
	for end = step(start); !end.After(now); end = step(start) {
		start = end
	}
	return start, end, interval, true
}

// MonthsElapsed returns the number of whole calendar months between from and
// to, zero when to precedes from. Used by the rollover engine to compute how
// many monthly allotments are owed since the last checkpoint.
func MonthsElapsed(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	months := 0
	for !from.AddDate(0, months+1, 0).After(to) {
		months++
	}
	return months
}
