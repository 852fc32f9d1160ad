package batch

import (
	"errors"
	"fmt"

	"portal-migrate/core/value"
)

// MaxBatchSize is the largest number of operations committed atomically.
const MaxBatchSize = 500

// ErrPartialWrite is returned by Report.Err when any chunk failed to commit.
var ErrPartialWrite = errors.New("partial write: one or more batches failed to commit")

// OpKind is the type of a write.
type OpKind string

const (
	OpSet    OpKind = "set"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
)

// Operation is one document write.
type Operation struct {
	Kind       OpKind
	Collection string
	Key        string
	Data       *value.Record
}

// Result is the outcome of preparing one input record.
type Result struct {
	// Index is the position of the record in its input.
	Index int
	Op    Operation
	// Err is set when no operation could be built for the record.
	Err error
}

// OK wraps a prepared operation.
func OK(index int, op Operation) Result {
	return Result{Index: index, Op: op}
}

// Fail wraps a per-record error.
func Fail(index int, err error) Result {
	return Result{Index: index, Err: err}
}

// Skip describes a record that was not written.
type Skip struct {
	Index  int
	Reason string
	Err    error
}

// ChunkFailure describes a chunk whose commit failed. None of its operations
// were applied.
type ChunkFailure struct {
	Chunk   int
	Indexes []int
	Keys    []string
	Err     error
}

// Report summarizes a write.
type Report struct {
	Written int
	Skipped []Skip
	Failed  []ChunkFailure
	Chunks  int
}

// FailedRecords counts the operations lost to failed chunks.
func (r *Report) FailedRecords() int {
	n := 0
	for _, f := range r.Failed {
		n += len(f.Keys)
	}
	return n
}

// Err returns ErrPartialWrite when any chunk failed. Skipped records alone are
// not an error.
func (r *Report) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d batches failed, first: %v", ErrPartialWrite, len(r.Failed), r.Chunks, r.Failed[0].Err)
}

// Add folds another report into r.
func (r *Report) Add(o Report) {
	r.Written += o.Written
	r.Skipped = append(r.Skipped, o.Skipped...)
	r.Failed = append(r.Failed, o.Failed...)
	r.Chunks += o.Chunks
}
