package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"portal-migrate/core/docstore/memstore"
	"portal-migrate/core/storage/mocks"
	"portal-migrate/core/value"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func seeded() *memstore.Store {
	store := memstore.New()
	store.Seed("clients", "CL-2025-001", value.NewRecord().
		Set("clientName", value.String("Acme")).
		Set("createdAt", value.Unix(1736935200, 0)))
	store.Seed("clients", "CL-2025-002", value.NewRecord().
		Set("id", value.String("CL-2025-002")).
		Set("clientName", value.String("Beta")))
	return store
}

func TestRender(t *testing.T) {
	data, n, err := New(seeded(), nil).Render(context.Background(), "clients")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.JSONEq(t, `{"clients": [
		{"id": "CL-2025-001", "clientName": "Acme", "createdAt": {"type": "timestamp/1.0", "seconds": 1736935200, "nanoseconds": 0}},
		{"id": "CL-2025-002", "clientName": "Beta"}
	]}`, string(data))
}

func TestRender_Empty(t *testing.T) {
	data, n, err := New(memstore.New(), nil).Render(context.Background(), "clients")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.JSONEq(t, `{"clients": []}`, string(data))
}

func TestToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "clients.json")
	n, err := New(seeded(), nil).ToFile(context.Background(), "clients", file)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"clientName": "Acme"`)
}

func TestSnapshotter(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("BucketExists", ctx, "backups").Return(true, nil)
	client.On("PutObject", ctx, "backups", "snapshots/clients/20250115T100000Z.json", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	s := NewSnapshotter(New(seeded(), nil), client, "backups", "snapshots")
	s.now = func() time.Time { return time.Date(2025, 1, 15, 18, 0, 0, 0, time.FixedZone("PHT", 8*3600)) }

	object, err := s.Snapshot(ctx, "clients")
	require.NoError(t, err)
	assert.Equal(t, "snapshots/clients/20250115T100000Z.json", object)
	client.AssertExpectations(t)
}

func TestSnapshotter_UploadFailure(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("BucketExists", ctx, "backups").Return(true, nil)
	client.On("PutObject", ctx, "backups", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("access denied"))

	_, err := NewSnapshotter(New(seeded(), nil), client, "backups", "snapshots").Snapshot(ctx, "clients")
	assert.ErrorContains(t, err, "snapshot of clients failed")
	assert.ErrorContains(t, err, "access denied")
}
