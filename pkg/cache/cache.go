// Package cache stores rendered figure artifacts.
//
// Rendering is deterministic, so a figure is fully identified by the trial
// content, the figure kind, the output format and the style. [Keyer] turns
// those into a key; a [Cache] stores the bytes under it.
//
// Three backends are provided:
//
//   - [FileCache]: one file per entry under a directory, used by the CLI
//   - [MemoryCache]: an in-process map, used by the preview server
//   - [NullCache]: stores nothing, used with --no-cache
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional per-entry expiry. A ttl of zero
// means the entry never expires.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key, replacing any previous entry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}
