// Package purge deletes every document of a collection ahead of a reimport.
//
// A purge is destructive and is only ever run on explicit request. Deletes go
// through the batch writer, so they are chunked and committed the same way as
// imports. When any chunk fails the purge reports ErrIncomplete and the
// caller must not reimport on top of the leftovers.
package purge

import (
	"context"
	"errors"
	"fmt"

	"portal-migrate/core/batch"
	"portal-migrate/core/docstore"

	"go.uber.org/zap"
)

// ErrIncomplete is returned when some delete batches failed.
var ErrIncomplete = errors.New("purge incomplete")

// Snapshotter saves a copy of a collection before it is purged.
type Snapshotter interface {
	Snapshot(ctx context.Context, collection string) (string, error)
}

// Options tune a purge run.
type Options struct {
	// DryRun counts documents without deleting them.
	DryRun bool
}

// Coordinator runs purges.
type Coordinator struct {
	store    docstore.Store
	writer   *batch.Writer
	logger   *zap.Logger
	snapshot Snapshotter
}

// New creates a coordinator. snapshot may be nil.
func New(store docstore.Store, writer *batch.Writer, logger *zap.Logger, snapshot Snapshotter) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{store: store, writer: writer, logger: logger, snapshot: snapshot}
}

// Purge deletes every document in collection and returns how many were removed.
func (c *Coordinator) Purge(ctx context.Context, collection string) (int, error) {
	return c.Run(ctx, collection, Options{})
}

// Run is Purge with options. In dry-run mode the returned count is the number
// of documents that would be deleted.
func (c *Coordinator) Run(ctx context.Context, collection string, opts Options) (int, error) {
	keys, err := c.store.ListKeys(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("failed to list %s for purge: %w", collection, err)
	}
	if len(keys) == 0 {
		c.logger.Info("Collection already empty, nothing to purge", zap.String("collection", collection))
		return 0, nil
	}
	if opts.DryRun {
		c.logger.Info("Dry run, purge skipped", zap.String("collection", collection), zap.Int("documents", len(keys)))
		return len(keys), nil
	}

	if c.snapshot != nil {
		object, err := c.snapshot.Snapshot(ctx, collection)
		if err != nil {
			return 0, err
		}
		c.logger.Info("Snapshot stored", zap.String("collection", collection), zap.String("object", object))
	}

	ops := make([]batch.Operation, len(keys))
	for i, key := range keys {
		ops[i] = batch.Operation{Kind: batch.OpDelete, Collection: collection, Key: key}
	}

	report := c.writer.WriteOps(ctx, ops)
	c.logger.Info("Purge finished",
		zap.String("collection", collection),
		zap.Int("deleted", report.Written),
		zap.Int("failed", report.FailedRecords()),
		zap.Int("batches", report.Chunks),
	)
	if err := report.Err(); err != nil {
		return report.Written, fmt.Errorf("%w: %s: %v", ErrIncomplete, collection, err)
	}
	return report.Written, nil
}
