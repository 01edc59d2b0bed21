// Package cache stores loaded tables and rendered artifacts by content key.
//
// Nothing is cached implicitly: callers decide what to store, keys are
// derived from content hashes so a changed file never hits a stale entry,
// and entries are removed explicitly with [Cache.Delete] or by clearing the
// cache directory.
//
// Three backends share the [Cache] interface:
//   - [FileCache] keeps entries under a local directory (CLI)
//   - [RedisCache] shares entries between dashboard instances
//   - [NullCache] stores nothing
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// TableKey identifies a parsed table by source name, raw content hash
	// and the encoding trial list used to decode it.
	TableKey(source, contentHash string, encodings []string) string

	// ArtifactKey identifies a rendered output of a table.
	ArtifactKey(tableHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds every input that changes a rendered artifact.
type ArtifactKeyOpts struct {
	KeyColumn    string   `json:"key_column"`
	ValueColumns []string `json:"value_columns"`
	KeyValue     string   `json:"key_value"`
	Format       string   `json:"format"`
	Palette      string   `json:"palette,omitempty"`
	Width        float64  `json:"width,omitempty"`
	Height       float64  `json:"height,omitempty"`
	Title        string   `json:"title,omitempty"`
	Percent      bool     `json:"percent,omitempty"`
}

// NullCache stores nothing. It backs --no-cache runs and tests.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error { return nil }
func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
