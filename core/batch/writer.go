package batch

import (
	"context"
	"fmt"

	"portal-migrate/core/docstore"

	"go.uber.org/zap"
)

// Writer commits operations in bounded chunks.
type Writer struct {
	store  docstore.Store
	logger *zap.Logger
	size   int
}

// Option configures a Writer.
type Option func(*Writer)

// WithBatchSize sets the chunk size. Values outside 1..MaxBatchSize fall back
// to MaxBatchSize.
func WithBatchSize(n int) Option {
	return func(w *Writer) {
		if n > 0 && n <= MaxBatchSize {
			w.size = n
		}
	}
}

// NewWriter creates a writer over store.
func NewWriter(store docstore.Store, logger *zap.Logger, opts ...Option) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Writer{store: store, logger: logger, size: MaxBatchSize}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// BatchSize returns the effective chunk size.
func (w *Writer) BatchSize() int { return w.size }

// WriteOps writes plain operations.
func (w *Writer) WriteOps(ctx context.Context, ops []Operation) Report {
	results := make([]Result, len(ops))
	for i, op := range ops {
		results[i] = OK(i, op)
	}
	return w.WriteAll(ctx, results)
}

// WriteAll skips errored results and commits the rest chunk by chunk.
func (w *Writer) WriteAll(ctx context.Context, results []Result) Report {
	var report Report

	pending := make([]Result, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			w.logger.Warn("Skipping record",
				zap.Int("index", res.Index),
				zap.Error(res.Err),
			)
			report.Skipped = append(report.Skipped, Skip{Index: res.Index, Reason: res.Err.Error(), Err: res.Err})
			continue
		}
		pending = append(pending, res)
	}

	for start := 0; start < len(pending); start += w.size {
		end := min(start+w.size, len(pending))
		chunk := pending[start:end]
		report.Chunks++

		if err := w.commit(ctx, chunk); err != nil {
			failure := ChunkFailure{Chunk: report.Chunks, Err: err}
			for _, res := range chunk {
				failure.Indexes = append(failure.Indexes, res.Index)
				failure.Keys = append(failure.Keys, res.Op.Key)
			}
			report.Failed = append(report.Failed, failure)
			w.logger.Error("Batch commit failed",
				zap.Int("chunk", report.Chunks),
				zap.Int("operations", len(chunk)),
				zap.String("first_key", chunk[0].Op.Key),
				zap.Error(err),
			)
			continue
		}

		report.Written += len(chunk)
		w.logger.Debug("Batch committed",
			zap.Int("chunk", report.Chunks),
			zap.Int("operations", len(chunk)),
			zap.Int("written_total", report.Written),
		)
	}

	return report
}

func (w *Writer) commit(ctx context.Context, chunk []Result) error {
	b := w.store.Batch()
	for _, res := range chunk {
		op := res.Op
		switch op.Kind {
		case OpSet:
			b.Set(op.Collection, op.Key, op.Data)
		case OpUpdate:
			b.Update(op.Collection, op.Key, op.Data)
		case OpDelete:
			b.Delete(op.Collection, op.Key)
		default:
			return fmt.Errorf("unknown operation %q on %s/%s", op.Kind, op.Collection, op.Key)
		}
	}
	return b.Commit(ctx)
}
