package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/louisbranch/storefront/internal/services/storefront/storage"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storefront-cache.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	return store, path
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open("  "); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenRunsMigrations(t *testing.T) {
	t.Parallel()

	_, path := openTestStore(t)
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer func() {
		_ = sqlDB.Close()
	}()

	for _, table := range []string{"cache_entries", "cache_meta", "schema_migrations"} {
		var name string
		err := sqlDB.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestReopenIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "storefront-cache.db")
	for range 2 {
		store, err := Open(path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
}

func TestCacheEntryLifecycle(t *testing.T) {
	t.Parallel()

	store, _ := openTestStore(t)
	ctx := context.Background()
	refreshedAt := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	entry := storage.CacheEntry{
		CacheKey:     "regions",
		Scope:        "regions",
		PayloadBytes: []byte(`[{"id":"reg_it"}]`),
		Version:      3,
		RefreshedAt:  refreshedAt,
		ExpiresAt:    refreshedAt.Add(10 * time.Minute),
	}
	if err := store.PutCacheEntry(ctx, entry); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := store.GetCacheEntry(ctx, "regions")
	if err != nil || !ok {
		t.Fatalf("get = %v, %v", ok, err)
	}
	if diff := cmp.Diff(entry, got); diff != "" {
		t.Fatalf("entry mismatch (-want +got):\n%s", diff)
	}

	entry.PayloadBytes = []byte(`[]`)
	entry.Version = 4
	if err := store.PutCacheEntry(ctx, entry); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, _, _ = store.GetCacheEntry(ctx, "regions")
	if string(got.PayloadBytes) != "[]" || got.Version != 4 {
		t.Fatalf("upserted entry = %+v", got)
	}

	if err := store.DeleteCacheEntry(ctx, "regions"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, err := store.GetCacheEntry(ctx, "regions"); err != nil || ok {
		t.Fatalf("get after delete = %v, %v", ok, err)
	}
}

func TestPutCacheEntryValidates(t *testing.T) {
	t.Parallel()

	store, _ := openTestStore(t)
	ctx := context.Background()
	invalid := []storage.CacheEntry{
		{Scope: "regions", PayloadBytes: []byte("x")},
		{CacheKey: "regions", PayloadBytes: []byte("x")},
		{CacheKey: "regions", Scope: "regions"},
	}
	for _, entry := range invalid {
		if err := store.PutCacheEntry(ctx, entry); err == nil {
			t.Fatalf("PutCacheEntry(%+v) expected error", entry)
		}
	}
}

func TestDeleteScopeAndPurge(t *testing.T) {
	t.Parallel()

	store, _ := openTestStore(t)
	ctx := context.Background()
	for _, entry := range []storage.CacheEntry{
		{CacheKey: "products:reg_it:0:12", Scope: "products", PayloadBytes: []byte("{}")},
		{CacheKey: "product:reg_it:maglia", Scope: "products", PayloadBytes: []byte("{}")},
		{CacheKey: "regions", Scope: "regions", PayloadBytes: []byte("[]")},
	} {
		if err := store.PutCacheEntry(ctx, entry); err != nil {
			t.Fatalf("put %s: %v", entry.CacheKey, err)
		}
	}

	removed, err := store.DeleteScope(ctx, "products")
	if err != nil || removed != 2 {
		t.Fatalf("DeleteScope() = %d, %v", removed, err)
	}
	removed, err = store.PurgeCacheEntries(ctx)
	if err != nil || removed != 1 {
		t.Fatalf("PurgeCacheEntries() = %d, %v", removed, err)
	}
}

func TestCacheVersionState(t *testing.T) {
	t.Parallel()

	store, _ := openTestStore(t)
	ctx := context.Background()
	if _, ok, err := store.GetCacheVersion(ctx); err != nil || ok {
		t.Fatalf("initial version = %v, %v", ok, err)
	}

	checkedAt := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	if err := store.PutCacheVersion(ctx, storage.CacheVersionState{Version: 7, CheckedAt: checkedAt}); err != nil {
		t.Fatalf("put version: %v", err)
	}
	state, ok, err := store.GetCacheVersion(ctx)
	if err != nil || !ok {
		t.Fatalf("get version = %v, %v", ok, err)
	}
	want := storage.CacheVersionState{Version: 7, CheckedAt: checkedAt, ChangedAt: checkedAt}
	if diff := cmp.Diff(want, state); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestNilStoreIsNotConfigured(t *testing.T) {
	t.Parallel()

	var store *Store
	if err := store.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if _, _, err := store.GetCacheEntry(context.Background(), "k"); err == nil {
		t.Fatal("expected not configured error")
	}
}
