// Package storage declares persistence contracts for storefront cache data.
//
// Cached data is always derived from the commerce backend and can be discarded
// and rebuilt at any time.
package storage

import (
	"context"
	"time"
)

// CacheEntry stores one cached backend payload and its freshness metadata.
type CacheEntry struct {
	CacheKey     string
	Scope        string
	PayloadBytes []byte
	// Version is the backend cache version current when the payload was fetched.
	Version     int64
	RefreshedAt time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the entry is past its expiry at now.
func (e CacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// CacheVersionState is the last backend cache version the storefront observed.
type CacheVersionState struct {
	Version   int64
	CheckedAt time.Time
	ChangedAt time.Time
}

// Store is the storefront cache persistence contract.
type Store interface {
	Close() error
	GetCacheEntry(ctx context.Context, cacheKey string) (CacheEntry, bool, error)
	PutCacheEntry(ctx context.Context, entry CacheEntry) error
	DeleteCacheEntry(ctx context.Context, cacheKey string) error
	DeleteScope(ctx context.Context, scope string) (int64, error)
	PurgeCacheEntries(ctx context.Context) (int64, error)
	GetCacheVersion(ctx context.Context) (CacheVersionState, bool, error)
	PutCacheVersion(ctx context.Context, state CacheVersionState) error
}
