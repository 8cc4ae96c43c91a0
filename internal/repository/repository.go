package repository

import "context"

// SecretRepository persists opaque, already-encrypted credential records.
// Names are storage identifiers chosen by the caller; values are never
// interpreted. This interface makes it easy to switch storage backends.
type SecretRepository interface {
	// Get returns ErrNotFound when no record exists for name.
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, value []byte) error
	// Delete is a no-op for unknown names.
	Delete(ctx context.Context, name string) error
	DeleteAll(ctx context.Context) error
}
