package storage

import (
	"context"
	"io"
)

// Storage is the minimal interface for media blob backends holding uploaded
// gallery images. Intentionally simple: put a file, delete a file, get its URL.
type Storage interface {
	// Put stores a blob under the given key
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes a blob by key. Returns nil if the blob doesn't exist.
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for a blob given its key
	GetURL(key string) string
}
