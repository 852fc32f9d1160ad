package sequence

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"portal-migrate/core/docstore"
	"portal-migrate/core/value"
)

// Delimiter separates prefix, year and suffix.
const Delimiter = "-"

// Scope identifies one numbering series.
type Scope struct {
	Prefix string
	Year   int
}

// String returns the common leading part of references in the scope.
func (s Scope) String() string {
	return s.Prefix + Delimiter + strconv.Itoa(s.Year) + Delimiter
}

// Format renders the reference with the given suffix.
func (s Scope) Format(n int) string {
	return fmt.Sprintf("%s%s%d%s%03d", s.Prefix, Delimiter, s.Year, Delimiter, n)
}

// Suffix extracts the numeric suffix of ref within the scope.
func (s Scope) Suffix(ref string) (int, bool) {
	rest, ok := strings.CutPrefix(ref, s.String())
	if !ok {
		return 0, false
	}
	if i := strings.Index(rest, Delimiter); i >= 0 {
		rest = rest[:i]
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Next returns the reference following the highest one in existing.
func Next(scope Scope, existing []string) string {
	highest := 0
	for _, ref := range existing {
		if n, ok := scope.Suffix(ref); ok && n > highest {
			highest = n
		}
	}
	return scope.Format(highest + 1)
}

// Allocator computes the next reference from the contents of a collection.
type Allocator struct {
	store      docstore.Store
	collection string
	field      string
}

// NewAllocator binds allocation to collection. When field is empty the
// references are read from document keys, otherwise from that field.
func NewAllocator(store docstore.Store, collection, field string) *Allocator {
	return &Allocator{store: store, collection: collection, field: field}
}

// Existing returns the references currently present in the collection.
func (a *Allocator) Existing(ctx context.Context) ([]string, error) {
	if a.field == "" {
		keys, err := a.store.ListKeys(ctx, a.collection)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", a.collection, err)
		}
		return keys, nil
	}

	docs, err := a.store.List(ctx, a.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", a.collection, err)
	}
	refs := make([]string, 0, len(docs))
	for _, doc := range docs {
		v, ok := doc.Data.Lookup(a.field)
		if !ok {
			continue
		}
		refs = append(refs, value.TextList(v)...)
	}
	return refs, nil
}

// Next reads the collection and returns the next reference in scope. The
// result is not reserved.
func (a *Allocator) Next(ctx context.Context, scope Scope) (string, error) {
	existing, err := a.Existing(ctx)
	if err != nil {
		return "", err
	}
	return Next(scope, existing), nil
}
