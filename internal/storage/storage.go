// Package storage holds whole-value snapshots under fixed string keys.
//
// Every write replaces the full value of a key. Nothing here coordinates
// writers: two processes doing read-modify-write on the same key can lose
// each other's changes.
package storage

import (
	"context"
	"errors"
)

var ErrInvalidKey = errors.New("invalid storage key")

// Backend is a minimal key/value store. Get returns ok=false for an absent key.
type Backend interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
