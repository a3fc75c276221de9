// Package storage is the local persistence adapter: a string key/value store
// holding JSON-encoded slices of application state, plus typed helpers for the
// fixed keys the app uses.
package storage

import (
	"context"
	"io"
)

// KV is a durable string key/value store. Load of an absent key returns
// ("", false, nil). Remove of an absent key is not an error.
type KV interface {
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Backend is a KV that holds an underlying connection.
type Backend interface {
	KV
	io.Closer
}
