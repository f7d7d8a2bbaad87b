package port

import "context"

// KeyValueStore is the durable slot backing client session state. Tests
// substitute an in-memory map for the Redis adapter.
type KeyValueStore interface {
	// Get returns the stored value, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores the value, replacing any previous one.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the key; absent keys are not an error.
	Delete(ctx context.Context, key string) error
}
