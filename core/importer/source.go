package importer

import (
	"context"
	"fmt"
	"os"

	"portal-migrate/core/storage"
)

// Source yields the raw export document.
type Source interface {
	Read(ctx context.Context) ([]byte, error)
	String() string
}

// FileSource reads a local file.
type FileSource string

func (f FileSource) Read(context.Context) ([]byte, error) {
	data, err := os.ReadFile(string(f))
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}

func (f FileSource) String() string { return string(f) }

// ObjectSource reads an object from the object store.
type ObjectSource struct {
	Client storage.Client
	Bucket string
	Object string
}

func (o ObjectSource) Read(ctx context.Context) ([]byte, error) {
	return storage.ReadObject(ctx, o.Client, o.Bucket, o.Object)
}

func (o ObjectSource) String() string { return "s3://" + o.Bucket + "/" + o.Object }
