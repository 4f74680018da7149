package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("file not found")

// FileStorage stores uploaded attachments under relative keys.
type FileStorage interface {
	// Upload writes r under key and returns the stored key
	Upload(ctx context.Context, r io.Reader, key string, contentType string) (string, error)

	// Open returns the stored content. Returns ErrNotFound for unknown keys.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for key
	URL(key string) string
}
