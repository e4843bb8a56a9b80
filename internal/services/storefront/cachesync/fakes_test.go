package cachesync

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/louisbranch/storefront/internal/services/storefront/backend"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
)

type memoryStore struct {
	mu       sync.Mutex
	entries  map[string]storage.CacheEntry
	version  storage.CacheVersionState
	hasState bool
	failGets bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: map[string]storage.CacheEntry{}}
}

func (s *memoryStore) Close() error { return nil }

func (s *memoryStore) GetCacheEntry(_ context.Context, key string) (storage.CacheEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGets {
		return storage.CacheEntry{}, false, errors.New("disk on fire")
	}
	entry, ok := s.entries[key]
	return entry, ok, nil
}

func (s *memoryStore) PutCacheEntry(_ context.Context, entry storage.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.CacheKey] = entry
	return nil
}

func (s *memoryStore) DeleteCacheEntry(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *memoryStore) DeleteScope(_ context.Context, scope string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for key, entry := range s.entries {
		if entry.Scope == scope {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (s *memoryStore) PurgeCacheEntries(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := int64(len(s.entries))
	s.entries = map[string]storage.CacheEntry{}
	return removed, nil
}

func (s *memoryStore) GetCacheVersion(context.Context) (storage.CacheVersionState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version, s.hasState, nil
}

func (s *memoryStore) PutCacheVersion(_ context.Context, state storage.CacheVersionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version = state
	s.hasState = true
	return nil
}

func (s *memoryStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

type fakeVersionSource struct {
	version atomic.Int64
	err     error
}

func (f *fakeVersionSource) GetCacheVersion(context.Context) (backend.CacheVersion, error) {
	if f.err != nil {
		return backend.CacheVersion{}, f.err
	}
	return backend.CacheVersion{ID: "cv_1", Version: f.version.Load()}, nil
}

type fakeCatalog struct {
	regionCalls  atomic.Int32
	productCalls atomic.Int32
	regions      []backend.Region
	err          error
	release      chan struct{}
	started      chan struct{}
}

func (f *fakeCatalog) ListRegions(ctx context.Context) ([]backend.Region, error) {
	f.regionCalls.Add(1)
	if f.started != nil {
		select {
		case f.started <- struct{}{}:
		default:
		}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.regions, nil
}

func (f *fakeCatalog) ListProducts(_ context.Context, query backend.ProductQuery) (backend.ProductPage, error) {
	f.productCalls.Add(1)
	if f.err != nil {
		return backend.ProductPage{}, f.err
	}
	return backend.ProductPage{
		Products: []backend.Product{{ID: "prod_1", Handle: "maglia", Title: "Maglia"}},
		Count:    1,
		Offset:   query.Offset,
		Limit:    query.Limit,
	}, nil
}

func (f *fakeCatalog) GetProductByHandle(_ context.Context, handle string, _ string) (backend.Product, error) {
	f.productCalls.Add(1)
	if f.err != nil {
		return backend.Product{}, f.err
	}
	return backend.Product{ID: "prod_1", Handle: handle}, nil
}
