// Package reconcile keeps derived fields consistent with the collections they
// are derived from.
//
// Portal records carry denormalized lists such as a client's project names or
// a project's quotation numbers. Those lists drift whenever the authoritative
// source records change outside the form that normally maintains them. A
// reconciliation Rule describes one such derived field:
//
//   - Target and DerivedField: where the derived list lives
//   - Source and LinkField: which records it is derived from
//   - Projection: how the list is computed from the linked source records
//
// # Algorithm
//
// For every target record the engine reads the target, queries the source
// records whose link field equals the target key or, when the link field holds
// a list, contains it, and runs the projection. Stored and computed values are
// compared as sets of trimmed strings, so ordering and surrounding whitespace
// never cause a write. Only a real difference produces a Delta, and each Delta
// is written back as one single-document update that touches the derived
// field (plus an optional last-modified marker) and nothing else.
//
// A failure on one target is logged and recorded in the Report; the run moves
// on to the next target.
//
// # Plans
//
// Plan computes deltas without writing. Apply writes a plan. Reconcile does
// both unless Options.DryRun is set.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(store, log)
//	rule := reconcile.Rule{
//	    Name:         "client-project-names",
//	    Target:       "clients",
//	    Source:       "projects",
//	    LinkField:    "clientId",
//	    DerivedField: "projectNames",
//	    Projection:   reconcile.Collect("projectName"),
//	}
//	report, err := engine.Reconcile(ctx, rule, reconcile.Options{})
package reconcile
