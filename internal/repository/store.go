package repository

import "context"

// Store is the local key-value store every panel persists into. Values are
// opaque bytes, usually a JSON document. Get returns ErrNotFound for a key
// that was never set or has been deleted.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}
