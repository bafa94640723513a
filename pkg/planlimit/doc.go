// Package planlimit provides per-plan usage caps for the entitlement engine.
//
// A plan assigns each metric a limit value and a limit type. Hard limits block
// usage beyond the cap, soft limits allow it but flag the excess so callers
// can notify or upsell, and none disables the cap entirely. Metrics are
// finer-grained than ledger quota pools on purpose: box, carton, and pallet
// labels carry independent caps while drawing from one consolidated balance.
//
// Plan definitions are loaded through a Source (in-memory or YAML file) and
// treated as immutable afterwards. Current usage is supplied by CounterFuncs
// registered per metric, typically backed by period usage aggregates.
//
// Basic usage:
//
//	counters := planlimit.NewRegistry()
//	counters.Register(planlimit.MetricUnitLabels, countUnitLabels)
//
//	svc, err := planlimit.NewService(ctx, planlimit.NewYAMLSource("plans.yml"), counters)
//	if err != nil {
//	    return err
//	}
//
//	ev, err := svc.Evaluate(ctx, tenantID, "growth", planlimit.MetricUnitLabels, 50)
//	if err != nil {
//	    return err
//	}
//	if !ev.Allowed {
//	    // hard cap reached; ev.Remaining units still available
//	}
package planlimit
