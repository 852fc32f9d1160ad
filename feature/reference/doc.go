// Package reference exposes the sequential reference allocator.
//
// References look like CL-2025-003: a collection prefix, the year and a
// three digit suffix one above the highest suffix already stored in that
// scope. The suffix is computed from what the collection holds when the
// request arrives; nothing is reserved, so the caller must write the new
// document before another allocation in the same scope can see it.
//
// Concurrent requests for one scope inside this process share a single
// collection scan and receive the same reference. Across processes the
// usual read-then-write race applies.
//
// # HTTP Endpoints
//
//   - GET /references/:collection/next : next reference
//     (query: prefix, year, field).
package reference
