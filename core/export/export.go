// Package export writes collections out as JSON documents that the importer
// accepts again, either to a local file or to the object store.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"time"

	"portal-migrate/core/docstore"
	"portal-migrate/core/storage"
	"portal-migrate/core/value"

	"go.uber.org/zap"
)

// KeyField receives the document key when a record does not carry one.
const KeyField = "id"

// Exporter renders collections.
type Exporter struct {
	store  docstore.Store
	logger *zap.Logger
}

// New creates an exporter over store.
func New(store docstore.Store, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{store: store, logger: logger}
}

// Render returns {"<collection>": [records...]} and the record count.
func (e *Exporter) Render(ctx context.Context, collection string) ([]byte, int, error) {
	docs, err := e.store.List(ctx, collection)
	if err != nil {
		return nil, 0, err
	}

	records := make(value.Sequence, 0, len(docs))
	for _, doc := range docs {
		rec := doc.Data
		if _, ok := rec.Get(KeyField); !ok {
			withKey := value.NewRecord().Set(KeyField, value.String(doc.Key))
			rec.Range(func(name string, v value.Value) bool {
				withKey.Set(name, v)
				return true
			})
			rec = withKey
		}
		records = append(records, rec)
	}

	raw, err := json.Marshal(value.NewRecord().Set(collection, records))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode %s: %w", collection, err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, 0, fmt.Errorf("failed to format %s: %w", collection, err)
	}
	out.WriteByte('\n')
	return out.Bytes(), len(records), nil
}

// ToFile writes the collection to a local file.
func (e *Exporter) ToFile(ctx context.Context, collection, file string) (int, error) {
	data, n, err := e.Render(ctx, collection)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", file, err)
	}
	e.logger.Info("Collection exported", zap.String("collection", collection), zap.Int("records", n), zap.String("file", file))
	return n, nil
}

// ToBucket uploads the collection as object in bucket.
func (e *Exporter) ToBucket(ctx context.Context, client storage.Client, bucket, object, collection string) (int, error) {
	data, n, err := e.Render(ctx, collection)
	if err != nil {
		return 0, err
	}
	if err := storage.EnsureBucket(ctx, client, bucket); err != nil {
		return 0, err
	}
	if err := storage.WriteObject(ctx, client, bucket, object, data); err != nil {
		return 0, err
	}
	e.logger.Info("Collection exported",
		zap.String("collection", collection),
		zap.Int("records", n),
		zap.String("bucket", bucket),
		zap.String("object", object),
	)
	return n, nil
}

// SnapshotName builds the object name of a snapshot taken at t.
func SnapshotName(prefix, collection string, t time.Time) string {
	return path.Join(prefix, collection, t.UTC().Format("20060102T150405Z")+".json")
}

// Snapshotter uploads a copy of a collection before it is destroyed.
type Snapshotter struct {
	exporter *Exporter
	client   storage.Client
	bucket   string
	prefix   string
	now      func() time.Time
}

// NewSnapshotter creates a snapshotter writing below prefix in bucket.
func NewSnapshotter(exporter *Exporter, client storage.Client, bucket, prefix string) *Snapshotter {
	return &Snapshotter{exporter: exporter, client: client, bucket: bucket, prefix: prefix, now: time.Now}
}

// Snapshot exports collection and returns the object name.
func (s *Snapshotter) Snapshot(ctx context.Context, collection string) (string, error) {
	object := SnapshotName(s.prefix, collection, s.now())
	if _, err := s.exporter.ToBucket(ctx, s.client, s.bucket, object, collection); err != nil {
		return "", fmt.Errorf("snapshot of %s failed: %w", collection, err)
	}
	return object, nil
}
