package subscription

import "slices"

// transition is a single (from, to) edge in the status graph.
type transition struct {
	from Status
	to   Status
}

// validTransitions is the fixed adjacency table for subscription status
// changes. There is no terminal state: cancelled and expired subscriptions
// can both be revived.
var validTransitions = map[transition]bool{
	// Trial states convert, expire, or flip between each other.
	{StatusTrial, StatusTrialing}: true,
	{StatusTrial, StatusActive}:   true,
	{StatusTrial, StatusPending}:  true,
	{StatusTrial, StatusExpired}:  true,

	{StatusTrialing, StatusTrial}:   true,
	{StatusTrialing, StatusActive}:  true,
	{StatusTrialing, StatusPending}: true,
	{StatusTrialing, StatusExpired}: true,

	// Pending payment resolves or dies.
	{StatusPending, StatusActive}:    true,
	{StatusPending, StatusCancelled}: true,
	{StatusPending, StatusExpired}:   true,

	{StatusActive, StatusPaused}:    true,
	{StatusActive, StatusCancelled}: true,
	{StatusActive, StatusExpired}:   true,
	{StatusActive, StatusPending}:   true,

	{StatusPaused, StatusActive}:    true,
	{StatusPaused, StatusCancelled}: true,
	{StatusPaused, StatusExpired}:   true,

	// Re-entry paths.
	{StatusCancelled, StatusActive}:  true,
	{StatusCancelled, StatusPending}: true,

	{StatusExpired, StatusActive}:  true,
	{StatusExpired, StatusPending}: true,
	{StatusExpired, StatusTrial}:   true,
}

// IsValidTransition reports whether moving a subscription from one status to
// another is allowed by the lifecycle table. Self-transitions are rejected.
func IsValidTransition(from, to Status) bool {
	return validTransitions[transition{from, to}]
}

// ValidTransitionsFrom returns every status reachable in one step from the
// given status, sorted for deterministic callers and tests.
func ValidTransitionsFrom(from Status) []Status {
	targets := make([]Status, 0, 4)
	for t := range validTransitions {
		if t.from == from {
			targets = append(targets, t.to)
		}
	}
	slices.Sort(targets)
	return targets
}
