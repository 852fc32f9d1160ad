// Package docstore defines the document store boundary used by the migration
// engine and ships its SQL-backed adapter.
//
// A document store holds named collections of schemaless documents, each
// addressed by a string key. The engine needs very little from it:
//
//   - ListKeys and List to enumerate a collection
//   - Get to read one document
//   - Query to filter a collection on a single field
//   - Batch to group up to a few hundred writes into one atomic commit
//
// # GormStore
//
// GormStore keeps every collection in one table (collection, doc_key, data,
// updated_at) with the document body serialized as JSON. A batch commit runs
// inside a single transaction, so either every operation in the batch lands
// or none does. Nothing spans batches.
//
// Query loads the collection and filters it in process with Match. That is
// adequate for the collection sizes of a business portal and keeps the
// adapter free of dialect specific JSON functions.
//
// # Usage
//
//	store := docstore.NewGormStore(db, cfg.Database.Table)
//	if err := store.Migrate(ctx); err != nil {
//	    return err
//	}
//
//	b := store.Batch()
//	b.Set("clients", "CL-2025-001", rec)
//	err := b.Commit(ctx)
package docstore
