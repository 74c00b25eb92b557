// Package store persists the canonical entry sequence. The engine sees an
// opaque key-value blob store; the gateway on top of it owns the record
// format and the round-trip contract.
package store

import (
	"context"
	"errors"
)

// ErrCorruptData marks a blob that exists but cannot be decoded as the
// expected record shape. Absence of the key is not corruption; it means an
// empty ledger.
var ErrCorruptData = errors.New("corrupt ledger data")

// BlobStore is an opaque byte store keyed by string. Implementations must
// be safe for concurrent use.
type BlobStore interface {
	// Get returns the value for key. The boolean reports whether the key
	// exists; a missing key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put overwrites any prior value under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	Close() error
}
