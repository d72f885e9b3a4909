// Package record defines the keyed store analysis payloads are persisted
// in. The core only needs get/put/delete/list-by-prefix; whether the backing
// store is ephemeral or durable is a deployment choice.
package record

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no stored payload.
var ErrNotFound = errors.New("record not found")

// Store is a keyed byte store with prefix listing.
type Store interface {
	Put(ctx context.Context, key string, payload []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}
