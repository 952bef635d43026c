// Package metadata is a small key/value store in the CLI's local SQLite
// database. The CLI keeps its session (token and user) here between runs.
package metadata

import "context"

type Repository interface {
	// Get returns common.ErrorNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is a no-op for an absent key.
	Delete(ctx context.Context, key string) error
}
