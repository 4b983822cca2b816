// Package storage defines the key/value persistence primitive the
// simulated backend and credential store are built on.
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get for keys that were never set or
// were deleted.
var ErrKeyNotFound = errors.New("key not found")

// KV is a durable string-keyed blob store. Values are opaque to the
// store; callers encode records as JSON.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys returns all keys with the given prefix, in no particular order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}
