// Package cache stores optimized layouts and rendered exports.
//
// Optimization is deterministic for a given snapshot, target and option set,
// so its result can be cached under a key derived from all three. The
// [Keyer] builds those keys; a [Cache] stores opaque bytes under them.
//
// Three backends are provided:
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the layout service
//   - [NullCache]: disables caching
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	LayoutTTL = 30 * 24 * time.Hour
	ExportTTL = 7 * 24 * time.Hour
)

// Cache stores byte values under string keys.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A zero ttl means the entry does not expire.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutKeyOpts are the inputs of an optimization that affect its result.
type LayoutKeyOpts struct {
	AspectRatio   float64 `json:"aspect_ratio"`
	MinEdgeLength float64 `json:"min_edge_length"`
	GridSize      int     `json:"grid_size"`
	// Options is the layout option set, serialized by the caller.
	Options any `json:"options"`
}

// ExportKeyOpts are the inputs of a rendered export.
type ExportKeyOpts struct {
	Format      string `json:"format"`
	Engine      string `json:"engine,omitempty"`
	Transparent bool   `json:"transparent,omitempty"`
	ShowIndex   bool   `json:"show_index,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey returns the key for the optimized positions of the snapshot
	// with the given content hash.
	LayoutKey(snapshotHash string, opts LayoutKeyOpts) string
	// ExportKey returns the key for a rendering of an already laid out
	// snapshot.
	ExportKey(snapshotHash string, opts ExportKeyOpts) string
}

// DefaultKeyer hashes all key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(snapshotHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", snapshotHash, opts)
}

// ExportKey implements [Keyer].
func (DefaultKeyer) ExportKey(snapshotHash string, opts ExportKeyOpts) string {
	return hashKey("export", snapshotHash, opts)
}
