package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"portal-migrate/core/batch"
	"portal-migrate/core/docstore"
	"portal-migrate/core/docstore/memstore"
	"portal-migrate/core/identity"
	"portal-migrate/core/purge"
	"portal-migrate/core/sanitize"
	"portal-migrate/core/value"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const clientsExport = `[
	{"id": "CL-2025-001", "clientName": "Acme", "createdAt": {"_seconds": 1736935200, "_nanoseconds": 0}, "notes": null},
	{"id": "CL-2025-002", "clientName": "Beta", "createdAt": "2025-01-15T10:00:00Z", "contact": "null"},
	{"clientName": "Orphan"},
	{"referenceNumber": "CL-2025-004", "clientName": "Delta", "createdAt": {"seconds": 1736935200, "nanoseconds": 0}},
	{"clientId": "CL-2025-005", "clientName": "Echo", "dueDate": "2025-02-01"}
]`

func newImporter(store *memstore.Store, opts ...Option) *Importer {
	writer := batch.NewWriter(store, zap.NewNop())
	base := []Option{
		WithPurger(purge.New(store, writer, zap.NewNop(), nil)),
		WithSanitizer(sanitize.New(sanitize.Options{DateFields: []string{"dueDate"}})),
	}
	return New(writer, append(base, opts...)...)
}

func TestImport_PartialFailureIsolation(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	report, err := newImporter(store).Import(ctx, []byte(clientsExport), Options{Collection: "clients"})
	require.NoError(t, err)
	require.NoError(t, report.Err())

	totals := report.Totals()
	assert.Equal(t, 4, totals.Written)
	require.Len(t, totals.Skipped, 1)
	assert.Equal(t, 2, totals.Skipped[0].Index)
	assert.ErrorIs(t, totals.Skipped[0].Err, identity.ErrNoIdentifier)

	keys, err := store.ListKeys(ctx, "clients")
	require.NoError(t, err)
	assert.Equal(t, []string{"CL-2025-001", "CL-2025-002", "CL-2025-004", "CL-2025-005"}, keys)

	acme, err := store.Get(ctx, "clients", "CL-2025-001")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "clientName", "createdAt"}, acme.Keys())

	beta, err := store.Get(ctx, "clients", "CL-2025-002")
	require.NoError(t, err)
	created, _ := beta.Get("createdAt")
	assert.Equal(t, value.Unix(1736935200, 0), created)
	_, hasContact := beta.Get("contact")
	assert.False(t, hasContact)

	echo, err := store.Get(ctx, "clients", "CL-2025-005")
	require.NoError(t, err)
	due, _ := echo.Get("dueDate")
	assert.Equal(t, value.KindTemporal, due.Kind())
}

func TestImport_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	im := newImporter(store)

	snapshot := func() map[string]*value.Record {
		docs, err := store.List(ctx, "clients")
		require.NoError(t, err)
		out := make(map[string]*value.Record, len(docs))
		for _, d := range docs {
			out[d.Key] = d.Data
		}
		return out
	}

	_, err := im.Import(ctx, []byte(clientsExport), Options{Collection: "clients"})
	require.NoError(t, err)
	first := snapshot()

	_, err = im.Import(ctx, []byte(clientsExport), Options{Collection: "clients"})
	require.NoError(t, err)
	assert.Equal(t, first, snapshot())
}

func TestImport_DuplicateKeysLastWins(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	input := `[{"id": "A", "v": "1"}, {"id": "B"}, {"id": "A", "v": "2"}]`
	report, err := newImporter(store).Import(ctx, []byte(input), Options{Collection: "clients"})
	require.NoError(t, err)

	totals := report.Totals()
	assert.Equal(t, 2, totals.Written)
	require.Len(t, totals.Skipped, 1)
	assert.Equal(t, 0, totals.Skipped[0].Index)

	var dup *DuplicateError
	require.True(t, errors.As(totals.Skipped[0].Err, &dup))
	assert.Equal(t, "A", dup.Key)
	assert.Equal(t, 2, dup.SupersededBy)

	a, err := store.Get(ctx, "clients", "A")
	require.NoError(t, err)
	v, _ := a.Get("v")
	assert.Equal(t, value.String("2"), v)
}

func TestImport_PurgeThenReimport(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	store.Seed("clients", "STALE-1", value.NewRecord())
	store.Seed("clients", "CL-2025-001", value.NewRecord().Set("clientName", value.String("Old")))
	store.Seed("projects", "P-1", value.NewRecord())

	report, err := newImporter(store).Import(ctx, []byte(clientsExport), Options{Collection: "clients", Purge: true})
	require.NoError(t, err)
	require.NoError(t, report.Err())
	assert.Equal(t, 2, report.Purged())

	keys, err := store.ListKeys(ctx, "clients")
	require.NoError(t, err)
	assert.NotContains(t, keys, "STALE-1")
	assert.Len(t, keys, 4)
	assert.Equal(t, 1, store.Count("projects"))

	// purge commit first, import commit second
	assert.Equal(t, []int{2, 4}, store.Commits())
}

func TestImport_IncompletePurgeBlocksReimport(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	store.Seed("clients", "STALE-1", value.NewRecord())
	store.FailCommit = func(n int, _ []string) error {
		if n == 1 {
			return errors.New("permission denied")
		}
		return nil
	}

	report, err := newImporter(store).Import(ctx, []byte(clientsExport), Options{Collection: "clients", Purge: true})
	require.NoError(t, err)

	assert.ErrorIs(t, report.Err(), purge.ErrIncomplete)
	assert.Zero(t, report.Totals().Written)
	assert.Equal(t, []int{1}, store.Commits(), "no import batch after a failed purge")
}

func TestImport_ChunkFailureReported(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	store.FailCommit = func(n int, _ []string) error {
		if n == 1 {
			return errors.New("unavailable")
		}
		return nil
	}

	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < 501; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"id": "R-%03d"}`, i)
	}
	b.WriteString("]")

	report, err := newImporter(store).Import(ctx, []byte(b.String()), Options{Collection: "clients"})
	require.NoError(t, err)

	totals := report.Totals()
	assert.Equal(t, 1, totals.Written)
	assert.Equal(t, 500, totals.FailedRecords())
	assert.ErrorIs(t, report.Err(), batch.ErrPartialWrite)
}

func TestImport_DryRun(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	store.Seed("clients", "STALE-1", value.NewRecord())

	report, err := newImporter(store).Import(ctx, []byte(clientsExport), Options{Collection: "clients", Purge: true, DryRun: true})
	require.NoError(t, err)

	require.Len(t, report.Collections, 1)
	c := report.Collections[0]
	assert.Equal(t, 4, c.Planned)
	assert.Equal(t, 1, c.Purged)
	assert.Len(t, c.Skipped, 1)
	assert.Zero(t, c.Written)
	assert.Empty(t, store.Commits())
}

func TestImport_MultiCollectionChains(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	im := newImporter(store, WithChains(identity.Chains{"quotations": {"quotationNumber"}}))

	input := `{
		"clients": [{"id": "CL-2025-001"}],
		"quotations": [{"id": "ignored", "quotationNumber": "QT-2025-007"}]
	}`
	report, err := im.Import(ctx, []byte(input), Options{})
	require.NoError(t, err)
	require.Len(t, report.Collections, 2)
	assert.Equal(t, "clients", report.Collections[0].Collection)

	_, err = store.Get(ctx, "quotations", "QT-2025-007")
	assert.NoError(t, err)
	_, err = store.Get(ctx, "quotations", "ignored")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestImport_MalformedWritesNothing(t *testing.T) {
	store := memstore.New()
	_, err := newImporter(store).Import(context.Background(), []byte(`[{"id": "a"}, `), Options{Collection: "clients"})
	assert.ErrorIs(t, err, ErrMalformedInput)
	assert.Empty(t, store.Commits())
}

func TestImport_PurgeWithoutCoordinator(t *testing.T) {
	store := memstore.New()
	im := New(batch.NewWriter(store, nil))
	_, err := im.Import(context.Background(), []byte(`[]`), Options{Collection: "clients", Purge: true})
	assert.Error(t, err)
}

func TestRun_FileSource(t *testing.T) {
	file := filepath.Join(t.TempDir(), "clients.json")
	require.NoError(t, os.WriteFile(file, []byte(clientsExport), 0o644))

	store := memstore.New()
	report, err := newImporter(store).Run(context.Background(), FileSource(file), Options{Collection: "clients"})
	require.NoError(t, err)
	assert.Equal(t, 4, report.Totals().Written)

	_, err = newImporter(store).Run(context.Background(), FileSource(filepath.Join(t.TempDir(), "missing.json")), Options{})
	assert.Error(t, err)
}
