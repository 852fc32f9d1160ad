// Package importer loads a legacy JSON export into the document store.
//
// # Input
//
// The export is a single JSON document in one of two shapes:
//
//	[ {record}, {record}, ... ]                      // one collection, named by the caller
//	{ "clients": [ ... ], "projects": [ ... ] }      // several collections, imported in order
//
// Anything else is rejected with ErrMalformedInput before a single write.
//
// # Pipeline
//
// Each collection goes through the same steps:
//
//  1. optional purge of the existing collection (explicitly requested only)
//  2. sanitize every record
//  3. resolve the document key from the collection's identifier chain
//  4. write Set operations through the batch writer
//
// Records without a resolvable key are skipped and reported. When the same
// key occurs twice in one run the later record wins and the earlier one is
// reported as skipped. Reimporting the same file therefore converges on the
// same stored state.
//
// A collection whose purge did not complete is not reimported.
package importer
