// Package integrity provides the health checks behind the doctor command.
//
// # Checks Provided
//
//   - Structure: the storage bucket exists and holds the imports/ and
//     snapshot folders.
//   - Schema: the documents table has the collection, doc_key, data and
//     updated_at columns.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks (503 when any fails).
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/schema : Runs the documents table check.
package integrity
