// Package repository persists the protocol aggregate as one JSON blob in a
// key-value store.
package repository

import "context"

// Store is a minimal key-value store.
type Store interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put overwrites the value stored under key.
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}
