// Package memstore provides an in-memory docstore.Store for tests and dry
// local runs. Documents are cloned on the way in and on the way out.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"portal-migrate/core/docstore"
	"portal-migrate/core/value"
)

// Store is a map backed docstore.Store.
type Store struct {
	mu          sync.Mutex
	collections map[string]map[string]*value.Record
	commits     []int

	// FailCommit, when set, is consulted before each commit with the 1-based
	// commit number and the keys in the batch. A non-nil error aborts the commit.
	FailCommit func(n int, keys []string) error
	// FailGet, when set, is consulted on every Get.
	FailGet func(collection, key string) error
	// FailQuery, when set, is consulted on every Query.
	FailQuery func(collection, field string, op docstore.Op) error
	// FailList, when set, is consulted on every ListKeys and List.
	FailList func(collection string) error
}

// New creates an empty store.
func New() *Store {
	return &Store{collections: make(map[string]map[string]*value.Record)}
}

// Seed stores a document directly, bypassing batches.
func (s *Store) Seed(collection, key string, data *value.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bucket(collection)[key] = data.Clone()
}

// Commits returns the operation count of every commit attempt, in order.
func (s *Store) Commits() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.commits))
	copy(out, s.commits)
	return out
}

// Count returns the number of documents in collection.
func (s *Store) Count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[collection])
}

func (s *Store) bucket(collection string) map[string]*value.Record {
	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]*value.Record)
		s.collections[collection] = docs
	}
	return docs
}

func (s *Store) ListKeys(ctx context.Context, collection string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.FailList != nil {
		if err := s.FailList(collection); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.collections[collection]))
	for k := range s.collections[collection] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) List(ctx context.Context, collection string) ([]docstore.Document, error) {
	keys, err := s.ListKeys(ctx, collection)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := make([]docstore.Document, 0, len(keys))
	for _, k := range keys {
		docs = append(docs, docstore.Document{Key: k, Data: s.collections[collection][k].Clone()})
	}
	return docs, nil
}

func (s *Store) Get(ctx context.Context, collection, key string) (*value.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.FailGet != nil {
		if err := s.FailGet(collection, key); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.collections[collection][key]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, key, docstore.ErrNotFound)
	}
	return rec.Clone(), nil
}

func (s *Store) Query(ctx context.Context, collection, field string, op docstore.Op, v value.Value) ([]docstore.Document, error) {
	if s.FailQuery != nil {
		if err := s.FailQuery(collection, field, op); err != nil {
			return nil, err
		}
	}
	docs, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := docs[:0]
	for _, doc := range docs {
		if docstore.Match(doc.Data, field, op, v) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *Store) Batch() docstore.Batch {
	return &batch{store: s}
}

type opKind int

const (
	opSet opKind = iota
	opUpdate
	opDelete
)

type op struct {
	kind       opKind
	collection string
	key        string
	data       *value.Record
}

type batch struct {
	store *Store
	ops   []op
}

func (b *batch) Set(collection, key string, data *value.Record) {
	b.ops = append(b.ops, op{kind: opSet, collection: collection, key: key, data: data.Clone()})
}

func (b *batch) Update(collection, key string, fields *value.Record) {
	b.ops = append(b.ops, op{kind: opUpdate, collection: collection, key: key, data: fields.Clone()})
}

func (b *batch) Delete(collection, key string) {
	b.ops = append(b.ops, op{kind: opDelete, collection: collection, key: key})
}

func (b *batch) Len() int { return len(b.ops) }

func (b *batch) Commit(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commits = append(s.commits, len(b.ops))
	if s.FailCommit != nil {
		keys := make([]string, len(b.ops))
		for i, o := range b.ops {
			keys[i] = o.key
		}
		if err := s.FailCommit(len(s.commits), keys); err != nil {
			return err
		}
	}

	// Apply to a staged copy of each touched collection so a failing update
	// leaves the store untouched.
	staged := make(map[string]map[string]*value.Record)
	stage := func(collection string) map[string]*value.Record {
		if docs, ok := staged[collection]; ok {
			return docs
		}
		docs := make(map[string]*value.Record, len(s.collections[collection]))
		for k, v := range s.collections[collection] {
			docs[k] = v
		}
		staged[collection] = docs
		return docs
	}

	for _, o := range b.ops {
		docs := stage(o.collection)
		switch o.kind {
		case opSet:
			docs[o.key] = o.data
		case opUpdate:
			current, ok := docs[o.key]
			if !ok {
				return fmt.Errorf("update %s/%s: %w", o.collection, o.key, docstore.ErrNotFound)
			}
			merged := current.Clone()
			o.data.Range(func(name string, v value.Value) bool {
				merged.Set(name, v)
				return true
			})
			docs[o.key] = merged
		case opDelete:
			delete(docs, o.key)
		}
	}

	for collection, docs := range staged {
		s.collections[collection] = docs
	}
	return nil
}
