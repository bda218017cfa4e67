package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("key not found")

// KV is the minimal interface for the durable key-value store that holds the
// site's persisted collections. Values are opaque bytes (JSON in practice).
// Intentionally simple: get a key, set a key, delete a key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
