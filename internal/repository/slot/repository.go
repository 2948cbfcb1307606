package slot

import "context"

// Repository is a named durable key-value slot. Get returns domain.ErrNotFound
// for keys that were never written or have been deleted.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
