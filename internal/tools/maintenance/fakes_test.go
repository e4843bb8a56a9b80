package maintenance

import (
	"context"
	"errors"
)

// fakeStore implements Store with in-memory state.
type fakeStore struct {
	version    CacheVersion
	migrated   bool
	counts     ProductCounts
	orphans    int
	deleted    int
	closed     bool
	bumpErr    error
	deleteErr  error
	countsErr  error
	closeErr   error
	deleteCall int
}

func (f *fakeStore) MigrateCacheVersion(context.Context) (CacheVersion, error) {
	if !f.migrated {
		f.migrated = true
		if f.version.ID == "" {
			f.version = CacheVersion{ID: "cv_test", Version: 1}
		}
	}
	return f.version, nil
}

func (f *fakeStore) BumpCacheVersion(context.Context) (int64, error) {
	if f.bumpErr != nil {
		return 0, f.bumpErr
	}
	if !f.migrated {
		return 0, errors.New("cache_version has no row; run migrate first")
	}
	f.version.Version++
	return f.version.Version, nil
}

func (f *fakeStore) ProductCounts(context.Context) (ProductCounts, error) {
	if f.countsErr != nil {
		return ProductCounts{}, f.countsErr
	}
	return f.counts, nil
}

func (f *fakeStore) CountOrphanInventoryItems(context.Context) (int, error) {
	return f.orphans, nil
}

func (f *fakeStore) DeleteOrphanInventoryItems(context.Context) (int, error) {
	f.deleteCall++
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.deleted += f.orphans
	n := f.orphans
	f.orphans = 0
	return n, nil
}

func (f *fakeStore) Close() error {
	f.closed = true
	return f.closeErr
}

func openerFor(store *fakeStore) Opener {
	return func(context.Context, string) (Store, error) {
		return store, nil
	}
}
