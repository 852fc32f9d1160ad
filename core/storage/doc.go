// Package storage provides the object storage client used for migration
// inputs and collection snapshots.
//
// It wraps the MinIO Go client behind a narrow Client interface so commands
// can read an export file from a bucket, write snapshots before a purge, and
// check bucket reachability. Both AWS S3 and self-hosted MinIO work.
//
// The interface exists mainly so tests can substitute core/storage/mocks.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	data, err := storage.ReadObject(ctx, client, cfg.Storage.Bucket, "exports/clients.json")
package storage
