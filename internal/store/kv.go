package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get for a slot that has never been written.
var ErrNotFound = errors.New("store: slot not found")

// KV is the named-slot store backing every persisted collection. Writes
// are whole-value overwrites; there is no incremental update.
type KV interface {
	Init(ctx context.Context) error
	Get(ctx context.Context, slot string) ([]byte, error)
	Set(ctx context.Context, slot string, value []byte) error
}
