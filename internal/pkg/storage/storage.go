package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound    = errors.New("stored object not found")
	ErrInvalidPath = errors.New("invalid storage path")
)

// Storage keeps uploaded blobs (accommodation photos, payment receipts).
// Paths are relative and use forward slashes.
type Storage interface {
	Save(ctx context.Context, path string, content io.Reader) error
	// Get returns ErrNotFound when nothing is stored at path.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete is a no-op for a missing path.
	Delete(ctx context.Context, path string) error
}
