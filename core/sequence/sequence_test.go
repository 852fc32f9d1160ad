package sequence

import (
	"context"
	"errors"
	"sync"
	"testing"

	"portal-migrate/core/docstore/memstore"
	"portal-migrate/core/value"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	scope := Scope{Prefix: "CL", Year: 2025}

	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{"empty scope", nil, "CL-2025-001"},
		{"gap is not filled", []string{"CL-2025-001", "CL-2025-002"}, "CL-2025-003"},
		{"other years and prefixes ignored", []string{"CL-2025-001", "CL-2024-007", "QT-2025-050", "CL-2025-002"}, "CL-2025-003"},
		{"unparsable suffix ignored", []string{"CL-2025-abc", "CL-2025-004"}, "CL-2025-005"},
		{"trailing token after suffix", []string{"CL-2025-009-rev2"}, "CL-2025-010"},
		{"grows past three digits", []string{"CL-2025-999"}, "CL-2025-1000"},
		{"prefix must match exactly", []string{"XCL-2025-010", "CL-20250-010"}, "CL-2025-001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Next(scope, tt.existing))
		})
	}
}

func TestAllocator_ByKey(t *testing.T) {
	store := memstore.New()
	store.Seed("clients", "CL-2025-001", value.NewRecord())
	store.Seed("clients", "CL-2025-002", value.NewRecord())
	store.Seed("clients", "CL-2024-010", value.NewRecord())

	ref, err := NewAllocator(store, "clients", "").Next(context.Background(), Scope{Prefix: "CL", Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, "CL-2025-003", ref)
}

func TestAllocator_ByField(t *testing.T) {
	store := memstore.New()
	store.Seed("quotations", "q1", value.NewRecord().Set("quotationNumber", value.String("QT-2025-011")))
	store.Seed("quotations", "q2", value.NewRecord().Set("quotationNumber", value.String(" QT-2025-012 ")))
	store.Seed("quotations", "q3", value.NewRecord().Set("title", value.String("no number yet")))

	ref, err := NewAllocator(store, "quotations", "quotationNumber").Next(context.Background(), Scope{Prefix: "QT", Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, "QT-2025-013", ref)
}

func TestAllocator_StoreError(t *testing.T) {
	store := memstore.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAllocator(store, "clients", "").Next(ctx, Scope{Prefix: "CL", Year: 2025})
	assert.True(t, errors.Is(err, context.Canceled))
}

// Two callers that read before either writes receive the same reference.
func TestAllocator_ConcurrentCallersCollide(t *testing.T) {
	store := memstore.New()
	store.Seed("clients", "CL-2025-001", value.NewRecord())
	alloc := NewAllocator(store, "clients", "")
	scope := Scope{Prefix: "CL", Year: 2025}

	var (
		wg   sync.WaitGroup
		refs [2]string
		errs [2]error
	)
	for i := range refs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			refs[i], errs[i] = alloc.Next(context.Background(), scope)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, "CL-2025-002", refs[0])
	assert.Equal(t, refs[0], refs[1], "allocation does not reserve numbers")
}
