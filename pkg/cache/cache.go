// Package cache stores grouping results and rendered artifacts keyed by the
// content hash of their input.
//
// Grouping is deterministic, so a result computed once for a pair set can be
// reused for as long as the entry lives. Backends implement [Cache]:
//
//   - [FileCache]: one JSON file per key under a directory (CLI default)
//   - [MemoryCache]: process memory, for a single long-running server
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: caching disabled
//
// Keys are built by a [Keyer] so that every backend sees the same layout, and
// [NewScopedKeyer] can isolate tenants sharing one backend.
//
// Cache failures never change results: callers treat a backend error as a
// miss and recompute.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and true on a hit. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 stores the entry without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// Default lifetimes for cached entries.
const (
	// TTLGroups is how long a grouping result stays cached.
	TTLGroups = 7 * 24 * time.Hour

	// TTLArtifact is how long a rendered artifact stays cached.
	TTLArtifact = 24 * time.Hour
)

// ArtifactKeyOpts are the render settings that distinguish artifacts built
// from the same input.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Sorted  bool    `json:"sorted,omitempty"`
	Compact bool    `json:"compact,omitempty"`
	Flat    bool    `json:"flat,omitempty"`
	Scale   float64 `json:"scale,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// GroupKey keys the grouping computed from the input with hash inputHash.
	GroupKey(inputHash string) string

	// ArtifactKey keys an artifact rendered from the input with hash
	// inputHash.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the unscoped key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the unscoped key layout.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GroupKey returns "groups:<inputHash>".
func (DefaultKeyer) GroupKey(inputHash string) string {
	return "groups:" + inputHash
}

// ArtifactKey returns "artifact:<hash of inputHash and opts>".
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return "artifact:" + artifactDigest(inputHash, opts)
}
