package memstore

import (
	"context"
	"errors"
	"testing"

	"portal-migrate/core/docstore"
	"portal-migrate/core/value"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_BatchAtomicity(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Seed("clients", "a", value.NewRecord().Set("n", value.String("1")))

	b := s.Batch()
	b.Set("clients", "b", value.NewRecord())
	b.Update("clients", "missing", value.NewRecord().Set("x", value.String("y")))
	assert.ErrorIs(t, b.Commit(ctx), docstore.ErrNotFound)

	keys, err := s.ListKeys(ctx, "clients")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, keys)
	assert.Equal(t, []int{2}, s.Commits())
}

func TestStore_FailCommit(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.FailCommit = func(n int, keys []string) error {
		if n == 2 {
			return errors.New("unavailable")
		}
		return nil
	}

	for _, key := range []string{"a", "b", "c"} {
		b := s.Batch()
		b.Set("clients", key, value.NewRecord())
		_ = b.Commit(ctx)
	}

	assert.Equal(t, 2, s.Count("clients"))
	_, err := s.Get(ctx, "clients", "b")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	rec := value.NewRecord().Set("n", value.String("1"))
	s.Seed("clients", "a", rec)
	rec.Set("n", value.String("mutated"))

	got, err := s.Get(ctx, "clients", "a")
	require.NoError(t, err)
	got.Set("n", value.String("mutated again"))

	again, err := s.Get(ctx, "clients", "a")
	require.NoError(t, err)
	n, _ := again.Get("n")
	assert.Equal(t, value.String("1"), n)
}
