// Package reconciliation serves the reconciliation engine over HTTP.
//
// Rules are the portal defaults merged with the configured ones. Unless the
// server allows writes, every run is forced into dry-run mode and only
// reports the deltas it would write.
//
// # HTTP Endpoints
//
//   - GET /reconcile : lists the registered rules.
//   - POST /reconcile/:rule : runs one rule (supports ?dry_run=true).
package reconciliation
