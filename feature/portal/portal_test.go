package portal

import (
	"context"
	"testing"

	"portal-migrate/core/batch"
	"portal-migrate/core/docstore/memstore"
	"portal-migrate/core/importer"
	"portal-migrate/core/reconcile"
	"portal-migrate/core/value"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRules_Valid(t *testing.T) {
	rules, err := reconcile.BuildRules(Rules(), reconcile.Config{MarkerField: "updatedAt"})
	require.NoError(t, err)
	require.Len(t, rules, 4)

	for _, r := range rules {
		assert.Equal(t, "updatedAt", r.MarkerField, r.Name)
	}
}

func TestPrefixFor(t *testing.T) {
	p, ok := PrefixFor("chargeslips")
	assert.True(t, ok)
	assert.Equal(t, "CS", p)

	_, ok = PrefixFor("invoices")
	assert.False(t, ok)
}

func TestRules_ChargeSlipsPerQuotation(t *testing.T) {
	store := memstore.New()
	store.Seed(Quotations, "QT-2025-001", value.NewRecord().Set("title", value.String("Fit-out")))
	store.Seed(ChargeSlips, "CS-2025-002", value.NewRecord().Set("quotationId", value.String("QT-2025-001")))
	store.Seed(ChargeSlips, "CS-2025-001", value.NewRecord().Set("quotationId", value.String("QT-2025-001")))
	store.Seed(ChargeSlips, "CS-2025-003", value.NewRecord().Set("quotationId", value.String("QT-2025-009")))

	rule, err := reconcile.Find(Rules(), "quotation-charge-slips")
	require.NoError(t, err)

	report, err := reconcile.NewEngine(store, zap.NewNop()).Reconcile(context.Background(), rule, reconcile.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)

	doc, err := store.Get(context.Background(), Quotations, "QT-2025-001")
	require.NoError(t, err)
	ids, _ := doc.Get("chargeSlipIds")
	assert.Equal(t, []string{"CS-2025-001", "CS-2025-002"}, value.TextList(ids))
	title, _ := doc.Get("title")
	assert.Equal(t, value.String("Fit-out"), title)
}

func TestRules_NumericIdentifiersFromImport(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	input := `{
		"clients": [{"id": 42, "projectNames": ["Alpha"]}],
		"projects": [{"id": 7, "clientId": 42, "projectName": "Alpha"}]
	}`

	imported, err := importer.New(batch.NewWriter(store, zap.NewNop())).Import(ctx, []byte(input), importer.Options{})
	require.NoError(t, err)
	require.NoError(t, imported.Err())

	rule, err := reconcile.Find(Rules(), "client-project-names")
	require.NoError(t, err)

	report, err := reconcile.NewEngine(store, zap.NewNop()).Reconcile(ctx, rule, reconcile.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Unchanged)
	assert.Empty(t, report.Deltas)

	doc, err := store.Get(ctx, Clients, "42")
	require.NoError(t, err)
	names, _ := doc.Get("projectNames")
	assert.Equal(t, []string{"Alpha"}, value.TextList(names))
}
