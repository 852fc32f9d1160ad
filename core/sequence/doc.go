// Package sequence allocates human-readable reference numbers of the form
// PREFIX-YEAR-NNN (for example CL-2025-003).
//
// # Allocation
//
// Next looks at the references that already exist in a scope (prefix and
// year), takes the highest numeric suffix and adds one. Suffixes are zero
// padded to three digits and simply grow wider past 999. References in other
// scopes and suffixes that do not parse as integers are ignored.
//
// # Concurrency
//
// Allocation is read-then-compute. Two callers that read the same set of
// existing references get the same answer; nothing here reserves a number.
// The portal relies on a single writer creating records for a given prefix.
// Callers that cannot guarantee that must serialize allocation themselves or
// make the final create conditional on the key being absent.
//
// # Usage
//
//	alloc := sequence.NewAllocator(store, "clients", "")
//	ref, err := alloc.Next(ctx, sequence.Scope{Prefix: "CL", Year: 2025})
package sequence
