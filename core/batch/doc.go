// Package batch writes operations to the document store in bounded, atomic
// chunks.
//
// # Chunking
//
// Operations are split, in input order, into chunks of at most MaxBatchSize
// operations (the store's limit on a single atomic commit). Chunks commit one
// after another. Each chunk is all-or-nothing, but chunks are independent:
// a failed chunk is recorded in the Report and the writer moves on, so a
// failure never undoes work that an earlier chunk already committed. There is
// no automatic retry.
//
// # Per-record results
//
// Callers that transform records before writing hand the writer one Result
// per input record. A Result carries either the operation to perform or the
// error that prevented building one. Errored results are reported as skipped
// and never reach the store, so one bad record costs exactly one record.
//
// # Usage
//
//	w := batch.NewWriter(store, log, batch.WithBatchSize(cfg.Migration.BatchSize))
//	report := w.WriteAll(ctx, results)
//	if err := report.Err(); err != nil {
//	    // at least one chunk failed
//	}
package batch
