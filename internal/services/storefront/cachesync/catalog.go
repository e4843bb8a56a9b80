package cachesync

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/louisbranch/storefront/internal/platform/timeouts"
	"github.com/louisbranch/storefront/internal/services/storefront/backend"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
)

const (
	scopeRegions  = "regions"
	scopeProducts = "products"

	// DefaultTTL bounds staleness between cache version bumps.
	DefaultTTL = 10 * time.Minute
)

// CatalogSource is the uncached catalog read surface.
type CatalogSource interface {
	ListRegions(ctx context.Context) ([]backend.Region, error)
	ListProducts(ctx context.Context, query backend.ProductQuery) (backend.ProductPage, error)
	GetProductByHandle(ctx context.Context, handle string, regionID string) (backend.Product, error)
}

// CachedCatalog serves catalog reads from the cache store, falling back to the
// backend on miss, expiry or version mismatch.
type CachedCatalog struct {
	next  CatalogSource
	store storage.Store
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group
}

// NewCachedCatalog wraps next. A nil store yields a pass-through catalog.
func NewCachedCatalog(next CatalogSource, store storage.Store, ttl time.Duration) *CachedCatalog {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedCatalog{next: next, store: store, ttl: ttl, now: time.Now}
}

// ListRegions returns every backend region.
func (c *CachedCatalog) ListRegions(ctx context.Context) ([]backend.Region, error) {
	return readThrough(ctx, c, "regions", scopeRegions, func(ctx context.Context) ([]backend.Region, error) {
		return c.next.ListRegions(ctx)
	})
}

// ListProducts returns one page of products.
func (c *CachedCatalog) ListProducts(ctx context.Context, query backend.ProductQuery) (backend.ProductPage, error) {
	key := fmt.Sprintf("products:%s:%d:%d", query.RegionID, query.Offset, query.Limit)
	return readThrough(ctx, c, key, scopeProducts, func(ctx context.Context) (backend.ProductPage, error) {
		return c.next.ListProducts(ctx, query)
	})
}

// GetProductByHandle returns one product.
func (c *CachedCatalog) GetProductByHandle(ctx context.Context, handle string, regionID string) (backend.Product, error) {
	key := fmt.Sprintf("product:%s:%s", regionID, handle)
	return readThrough(ctx, c, key, scopeProducts, func(ctx context.Context) (backend.Product, error) {
		return c.next.GetProductByHandle(ctx, handle, regionID)
	})
}

// readThrough returns the cached value for key when it is fresh and stamped
// with the current backend version; otherwise it loads, stores and returns it.
// Cache store failures are logged and never fail the read.
func readThrough[T any](ctx context.Context, c *CachedCatalog, key string, scope string, load func(context.Context) (T, error)) (T, error) {
	if c.store == nil {
		return load(ctx)
	}
	version := CurrentVersion(ctx, c.store)
	if value, ok := c.lookup(ctx, key, version); ok {
		var decoded T
		if err := json.Unmarshal(value, &decoded); err == nil {
			return decoded, nil
		}
	}

	// The shared load outlives any single caller; each caller stops waiting
	// when its own context ends.
	results := c.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.BackendRequest)
		defer cancel()
		value, err := load(loadCtx)
		if err != nil {
			return value, err
		}
		c.save(loadCtx, key, scope, version, value)
		return value, nil
	})
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case result := <-results:
		if result.Err != nil {
			var zero T
			return zero, result.Err
		}
		return result.Val.(T), nil
	}
}

func (c *CachedCatalog) lookup(ctx context.Context, key string, version int64) ([]byte, bool) {
	entry, found, err := c.store.GetCacheEntry(ctx, key)
	if err != nil {
		log.Printf("cache read failed key=%s: %v", key, err)
		return nil, false
	}
	if !found || entry.Version != version || entry.Expired(c.now()) {
		return nil, false
	}
	return entry.PayloadBytes, true
}

func (c *CachedCatalog) save(ctx context.Context, key string, scope string, version int64, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		log.Printf("cache encode failed key=%s: %v", key, err)
		return
	}
	now := c.now().UTC()
	if err := c.store.PutCacheEntry(ctx, storage.CacheEntry{
		CacheKey:     key,
		Scope:        scope,
		PayloadBytes: payload,
		Version:      version,
		RefreshedAt:  now,
		ExpiresAt:    now.Add(c.ttl),
	}); err != nil {
		log.Printf("cache write failed key=%s: %v", key, err)
	}
}
