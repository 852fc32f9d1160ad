package docstore

import (
	"context"
	"errors"

	"portal-migrate/core/value"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Document is a stored record together with its key.
type Document struct {
	Key  string
	Data *value.Record
}

// Op is a single-field query comparison.
type Op string

const (
	OpEqual         Op = "=="
	OpNotEqual      Op = "!="
	OpLess          Op = "<"
	OpLessEqual     Op = "<="
	OpGreater       Op = ">"
	OpGreaterEqual  Op = ">="
	OpArrayContains Op = "array-contains"
	// OpRefers matches by text form: a string or number field whose text
	// equals the wanted text, or a sequence holding such an item. 42 and "42"
	// refer to the same document. Surrounding whitespace is ignored.
	OpRefers Op = "refers-to"
)

// Store is the document store boundary.
type Store interface {
	// ListKeys returns every document key in collection, sorted.
	ListKeys(ctx context.Context, collection string) ([]string, error)
	// List returns every document in collection, sorted by key.
	List(ctx context.Context, collection string) ([]Document, error)
	// Get returns one document or ErrNotFound.
	Get(ctx context.Context, collection, key string) (*value.Record, error)
	// Query returns the documents whose field satisfies op against v.
	Query(ctx context.Context, collection, field string, op Op, v value.Value) ([]Document, error)
	// Batch starts an empty write batch.
	Batch() Batch
}

// Batch groups writes that commit atomically.
type Batch interface {
	// Set replaces the document at key, creating it when missing.
	Set(collection, key string, data *value.Record)
	// Update merges top-level fields into an existing document. Committing an
	// update for a missing document fails the whole batch.
	Update(collection, key string, fields *value.Record)
	// Delete removes the document at key. Deleting a missing key is not an error.
	Delete(collection, key string)
	// Len returns the number of queued operations.
	Len() int
	// Commit applies every queued operation or none of them.
	Commit(ctx context.Context) error
}
