package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"portal-migrate/core/value"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultTable is the table GormStore uses when none is configured.
const DefaultTable = "documents"

// Columns lists the columns GormStore requires in its table.
var Columns = []string{"collection", "doc_key", "data", "updated_at"}

// documentRow is one stored document.
type documentRow struct {
	Collection string    `gorm:"column:collection;primaryKey;size:128"`
	DocKey     string    `gorm:"column:doc_key;primaryKey;size:255"`
	Data       string    `gorm:"column:data;type:longtext;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

// GormStore implements Store on top of a relational database.
type GormStore struct {
	db    *gorm.DB
	table string
	now   func() time.Time
}

// NewGormStore creates a store over db using table (DefaultTable when empty).
func NewGormStore(db *gorm.DB, table string) *GormStore {
	if table == "" {
		table = DefaultTable
	}
	return &GormStore{db: db, table: table, now: time.Now}
}

// Table returns the backing table name.
func (s *GormStore) Table() string { return s.table }

// Migrate creates or updates the backing table.
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Table(s.table).AutoMigrate(&documentRow{}); err != nil {
		return fmt.Errorf("failed to migrate table %s: %w", s.table, err)
	}
	return nil
}

// ListKeys implements Store.
func (s *GormStore) ListKeys(ctx context.Context, collection string) ([]string, error) {
	var keys []string
	err := s.db.WithContext(ctx).Table(s.table).
		Where("collection = ?", collection).
		Order("doc_key").
		Pluck("doc_key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list keys of %s: %w", collection, err)
	}
	return keys, nil
}

// List implements Store.
func (s *GormStore) List(ctx context.Context, collection string) ([]Document, error) {
	return s.find(s.db.WithContext(ctx).Table(s.table).Where("collection = ?", collection), collection)
}

// find loads and decodes the rows selected by tx, ordered by key.
func (s *GormStore) find(tx *gorm.DB, collection string) ([]Document, error) {
	var rows []documentRow
	if err := tx.Order("doc_key").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		rec, err := value.DecodeRecord([]byte(row.Data))
		if err != nil {
			return nil, fmt.Errorf("corrupt document %s/%s: %w", collection, row.DocKey, err)
		}
		docs = append(docs, Document{Key: row.DocKey, Data: rec})
	}
	return docs, nil
}

// Get implements Store.
func (s *GormStore) Get(ctx context.Context, collection, key string) (*value.Record, error) {
	row, err := s.take(s.db.WithContext(ctx), collection, key)
	if err != nil {
		return nil, err
	}
	rec, err := value.DecodeRecord([]byte(row.Data))
	if err != nil {
		return nil, fmt.Errorf("corrupt document %s/%s: %w", collection, key, err)
	}
	return rec, nil
}

// Query implements Store. Text lookups are narrowed in SQL with a substring
// match on the encoded document; every candidate is then checked with Match.
func (s *GormStore) Query(ctx context.Context, collection, field string, op Op, v value.Value) ([]Document, error) {
	tx := s.db.WithContext(ctx).Table(s.table).Where("collection = ?", collection)
	if pattern, ok := likePattern(op, v); ok {
		tx = tx.Where("data LIKE ? ESCAPE '!'", pattern)
	}
	docs, err := s.find(tx, collection)
	if err != nil {
		return nil, err
	}
	out := docs[:0]
	for _, doc := range docs {
		if Match(doc.Data, field, op, v) {
			out = append(out, doc)
		}
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePattern returns a LIKE pattern every matching document satisfies. Texts
// that JSON would escape are not narrowed.
func likePattern(op Op, v value.Value) (string, bool) {
	var text string
	switch op {
	case OpRefers:
		t, ok := ReferenceText(v)
		if !ok {
			return "", false
		}
		text = t
	case OpEqual, OpArrayContains:
		sc, ok := v.(value.Scalar)
		if !ok {
			return "", false
		}
		str, ok := sc.Str()
		if !ok || str == "" {
			return "", false
		}
		text = str
	default:
		return "", false
	}

	encoded, err := json.Marshal(text)
	if err != nil || string(encoded) != `"`+text+`"` {
		return "", false
	}
	return "%" + likeEscaper.Replace(text) + "%", true
}

// Batch implements Store.
func (s *GormStore) Batch() Batch {
	return &gormBatch{store: s}
}

func (s *GormStore) take(tx *gorm.DB, collection, key string) (*documentRow, error) {
	var row documentRow
	err := tx.Table(s.table).
		Where("collection = ? AND doc_key = ?", collection, key).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s/%s: %w", collection, key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", collection, key, err)
	}
	return &row, nil
}

type mutationKind int

const (
	mutationSet mutationKind = iota
	mutationUpdate
	mutationDelete
)

type mutation struct {
	kind       mutationKind
	collection string
	key        string
	data       *value.Record
}

type gormBatch struct {
	store *GormStore
	ops   []mutation
}

func (b *gormBatch) Set(collection, key string, data *value.Record) {
	b.ops = append(b.ops, mutation{kind: mutationSet, collection: collection, key: key, data: data})
}

func (b *gormBatch) Update(collection, key string, fields *value.Record) {
	b.ops = append(b.ops, mutation{kind: mutationUpdate, collection: collection, key: key, data: fields})
}

func (b *gormBatch) Delete(collection, key string) {
	b.ops = append(b.ops, mutation{kind: mutationDelete, collection: collection, key: key})
}

func (b *gormBatch) Len() int { return len(b.ops) }

// Commit runs every queued operation inside one transaction.
func (b *gormBatch) Commit(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}
	s := b.store
	now := s.now().UTC()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range b.ops {
			var err error
			switch op.kind {
			case mutationSet:
				err = s.upsert(tx, op.collection, op.key, op.data, now)
			case mutationUpdate:
				err = s.merge(tx, op.collection, op.key, op.data, now)
			case mutationDelete:
				err = tx.Table(s.table).
					Where("collection = ? AND doc_key = ?", op.collection, op.key).
					Delete(&documentRow{}).Error
			}
			if err != nil {
				return fmt.Errorf("batch operation on %s/%s failed: %w", op.collection, op.key, err)
			}
		}
		return nil
	})
}

func (s *GormStore) upsert(tx *gorm.DB, collection, key string, data *value.Record, now time.Time) error {
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}
	row := documentRow{Collection: collection, DocKey: key, Data: string(body), UpdatedAt: now}
	return tx.Table(s.table).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
}

func (s *GormStore) merge(tx *gorm.DB, collection, key string, fields *value.Record, now time.Time) error {
	row, err := s.take(tx, collection, key)
	if err != nil {
		return err
	}
	current, err := value.DecodeRecord([]byte(row.Data))
	if err != nil {
		return err
	}
	fields.Range(func(name string, v value.Value) bool {
		current.Set(name, v)
		return true
	})
	body, err := json.Marshal(current)
	if err != nil {
		return err
	}
	return tx.Table(s.table).
		Where("collection = ? AND doc_key = ?", collection, key).
		Updates(map[string]any{"data": string(body), "updated_at": now}).Error
}
