// Package subscription models the tenant subscription lifecycle for the
// entitlement engine.
//
// A subscription moves between a fixed set of statuses through a static
// transition table; there is no terminal state, so cancelled and expired
// subscriptions can both be revived. The engine reads subscription state to
// decide whether a tenant is operable and advances it on lifecycle events
// (trial expiry, grace-period application).
//
// Key concepts:
//
//   - Status: lifecycle state (trial, trialing, pending, active, paused,
//     cancelled, expired)
//   - IsValidTransition: the authoritative transition table
//   - Subscription: per-tenant record with trial, period, and grace windows
//
// Basic usage:
//
//	sub := &subscription.Subscription{
//	    TenantID: tenantID,
//	    Status:   subscription.StatusTrialing,
//	}
//	if err := sub.Transition(subscription.StatusActive); err != nil {
//	    // transition not allowed by the lifecycle table
//	}
package subscription
