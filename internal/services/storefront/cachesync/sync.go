// Package cachesync keeps the storefront cache aligned with the backend
// CacheVersion stamp and serves catalog reads through the cache.
package cachesync

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/louisbranch/storefront/internal/platform/timeouts"
	"github.com/louisbranch/storefront/internal/services/storefront/backend"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
)

// VersionSource reads the backend cache version stamp.
type VersionSource interface {
	GetCacheVersion(ctx context.Context) (backend.CacheVersion, error)
}

// Syncer purges the cache store whenever the backend version changes.
type Syncer struct {
	store  storage.Store
	source VersionSource
	now    func() time.Time
}

// NewSyncer builds a syncer over store and source.
func NewSyncer(store storage.Store, source VersionSource) *Syncer {
	return &Syncer{store: store, source: source, now: time.Now}
}

// SyncOnce compares the backend version with the stored one and purges every
// entry when they differ. It reports whether a purge happened.
func (s *Syncer) SyncOnce(ctx context.Context) (bool, error) {
	if s == nil || s.store == nil || s.source == nil {
		return false, nil
	}
	remote, err := s.source.GetCacheVersion(ctx)
	if err != nil {
		return false, fmt.Errorf("read backend cache version: %w", err)
	}
	local, found, err := s.store.GetCacheVersion(ctx)
	if err != nil {
		return false, fmt.Errorf("read stored cache version: %w", err)
	}
	checkedAt := s.now().UTC()

	if found && local.Version == remote.Version {
		local.CheckedAt = checkedAt
		if err := s.store.PutCacheVersion(ctx, local); err != nil {
			return false, fmt.Errorf("persist cache version check: %w", err)
		}
		return false, nil
	}

	removed, err := s.store.PurgeCacheEntries(ctx)
	if err != nil {
		return false, fmt.Errorf("purge cache entries: %w", err)
	}
	if err := s.store.PutCacheVersion(ctx, storage.CacheVersionState{
		Version:   remote.Version,
		CheckedAt: checkedAt,
		ChangedAt: checkedAt,
	}); err != nil {
		return false, fmt.Errorf("persist cache version: %w", err)
	}
	log.Printf("cache version changed from=%d to=%d purged=%d", local.Version, remote.Version, removed)
	return true, nil
}

// Run syncs immediately and then on every interval tick until ctx is done.
func (s *Syncer) Run(ctx context.Context, interval time.Duration) {
	if s == nil {
		return
	}
	if interval <= 0 {
		interval = timeouts.CacheSync
	}
	if _, err := s.SyncOnce(ctx); err != nil {
		log.Printf("cache sync failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SyncOnce(ctx); err != nil {
				log.Printf("cache sync failed: %v", err)
			}
		}
	}
}

// Start runs the syncer in the background. The returned stop function cancels
// the loop and waits for it to exit.
func Start(store storage.Store, source VersionSource, interval time.Duration) (stop func()) {
	if store == nil || source == nil {
		return func() {}
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	syncer := NewSyncer(store, source)
	go func() {
		defer close(done)
		syncer.Run(ctx, interval)
	}()
	return func() {
		cancel()
		<-done
	}
}

// CurrentVersion returns the stored backend version, or zero when unknown.
func CurrentVersion(ctx context.Context, store storage.Store) int64 {
	if store == nil {
		return 0
	}
	state, found, err := store.GetCacheVersion(ctx)
	if err != nil || !found {
		return 0
	}
	return state.Version
}
