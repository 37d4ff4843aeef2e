// Package snapshot persists wizard field data outside the core: it loads the
// initial dataset merged against built-in defaults and writes changes back on
// a debounce.
package snapshot

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Store when no snapshot exists for a key.
var ErrNotFound = errors.New("snapshot not found")

// Store is a key/value blob store for encoded datasets.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by stores that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Key returns the store key for a wizard session.
func Key(sessionID string) string {
	return "wizard:" + sessionID
}
