// Package cache provides the shared response cache used by the TMDB fetch
// layer. Entries are keyed strings carrying raw JSON, a revalidation window
// (TTL) and a set of tags for bulk invalidation. Correctness never depends
// on the cache: a nil or failing store simply means every read goes
// upstream.
package cache

import (
	"context"
	"time"
)

// Store is the cache contract the fetch layer is built against. Writes are
// last-writer-wins per key; tag invalidation affects every entry carrying
// the tag regardless of remaining TTL.
type Store interface {
	// Get returns the cached value for key, or ok=false when the key is
	// absent, expired, or invalidated.
	Get(ctx context.Context, key string) (value []byte, ok bool)
	// Set stores value under key with the given revalidation window and
	// tags, replacing any previous entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags []string) error
	// InvalidateTag expires every entry carrying the tag.
	InvalidateTag(ctx context.Context, tag string) error
}

// Revalidation windows by data volatility.
const (
	TTLTrending  = 1 * time.Hour
	TTLDiscovery = 2 * time.Hour
	TTLProviders = 2 * time.Hour
	TTLGenres    = 24 * time.Hour
	TTLCatalog   = 24 * time.Hour
	TTLDetails   = 30 * 24 * time.Hour
)
