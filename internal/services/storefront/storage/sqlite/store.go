// Package sqlite provides the storefront cache store backed by SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/storefront/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
	"github.com/louisbranch/storefront/internal/services/storefront/storage/sqlite/migrations"
)

// Store provides SQLite-backed persistence for storefront cache data.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates a cache store at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetCacheEntry loads a cache payload and metadata by key.
func (s *Store) GetCacheEntry(ctx context.Context, cacheKey string) (storage.CacheEntry, bool, error) {
	if err := s.ready(); err != nil {
		return storage.CacheEntry{}, false, err
	}
	cacheKey = strings.TrimSpace(cacheKey)
	if cacheKey == "" {
		return storage.CacheEntry{}, false, fmt.Errorf("cache key is required")
	}

	var entry storage.CacheEntry
	var refreshedAt, expiresAt int64
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT cache_key, scope, payload_json, version, refreshed_at, expires_at
		 FROM cache_entries
		 WHERE cache_key = ?`,
		cacheKey,
	).Scan(&entry.CacheKey, &entry.Scope, &entry.PayloadBytes, &entry.Version, &refreshedAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.CacheEntry{}, false, nil
	}
	if err != nil {
		return storage.CacheEntry{}, false, fmt.Errorf("get cache entry: %w", err)
	}
	entry.RefreshedAt = unixMillisToTime(refreshedAt)
	entry.ExpiresAt = unixMillisToTime(expiresAt)
	return entry, true, nil
}

// PutCacheEntry upserts a cache payload by key.
func (s *Store) PutCacheEntry(ctx context.Context, entry storage.CacheEntry) error {
	if err := s.ready(); err != nil {
		return err
	}
	entry.CacheKey = strings.TrimSpace(entry.CacheKey)
	if entry.CacheKey == "" {
		return fmt.Errorf("cache key is required")
	}
	entry.Scope = strings.TrimSpace(entry.Scope)
	if entry.Scope == "" {
		return fmt.Errorf("cache scope is required")
	}
	if len(entry.PayloadBytes) == 0 {
		return fmt.Errorf("cache payload is required")
	}
	if entry.RefreshedAt.IsZero() {
		entry.RefreshedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO cache_entries (cache_key, scope, payload_json, version, refreshed_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET
		    scope = excluded.scope,
		    payload_json = excluded.payload_json,
		    version = excluded.version,
		    refreshed_at = excluded.refreshed_at,
		    expires_at = excluded.expires_at`,
		entry.CacheKey,
		entry.Scope,
		entry.PayloadBytes,
		entry.Version,
		timeToUnixMillis(entry.RefreshedAt),
		timeToUnixMillis(entry.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("put cache entry: %w", err)
	}
	return nil
}

// DeleteCacheEntry removes one cache entry.
func (s *Store) DeleteCacheEntry(ctx context.Context, cacheKey string) error {
	if err := s.ready(); err != nil {
		return err
	}
	cacheKey = strings.TrimSpace(cacheKey)
	if cacheKey == "" {
		return fmt.Errorf("cache key is required")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM cache_entries WHERE cache_key = ?`, cacheKey); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

// DeleteScope removes every entry in scope and returns how many were removed.
func (s *Store) DeleteScope(ctx context.Context, scope string) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return 0, fmt.Errorf("cache scope is required")
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM cache_entries WHERE scope = ?`, scope)
	if err != nil {
		return 0, fmt.Errorf("delete cache scope: %w", err)
	}
	return result.RowsAffected()
}

// PurgeCacheEntries removes every cache entry.
func (s *Store) PurgeCacheEntries(ctx context.Context) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM cache_entries`)
	if err != nil {
		return 0, fmt.Errorf("purge cache entries: %w", err)
	}
	return result.RowsAffected()
}

// GetCacheVersion loads the last observed backend cache version.
func (s *Store) GetCacheVersion(ctx context.Context) (storage.CacheVersionState, bool, error) {
	if err := s.ready(); err != nil {
		return storage.CacheVersionState{}, false, err
	}
	var state storage.CacheVersionState
	var checkedAt, changedAt int64
	err := s.sqlDB.QueryRowContext(ctx, `SELECT version, checked_at, changed_at FROM cache_meta WHERE id = 1`).
		Scan(&state.Version, &checkedAt, &changedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.CacheVersionState{}, false, nil
	}
	if err != nil {
		return storage.CacheVersionState{}, false, fmt.Errorf("get cache version: %w", err)
	}
	state.CheckedAt = unixMillisToTime(checkedAt)
	state.ChangedAt = unixMillisToTime(changedAt)
	return state, true, nil
}

// PutCacheVersion records the observed backend cache version.
func (s *Store) PutCacheVersion(ctx context.Context, state storage.CacheVersionState) error {
	if err := s.ready(); err != nil {
		return err
	}
	if state.CheckedAt.IsZero() {
		state.CheckedAt = time.Now().UTC()
	}
	if state.ChangedAt.IsZero() {
		state.ChangedAt = state.CheckedAt
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO cache_meta (id, version, checked_at, changed_at)
		 VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		    version = excluded.version,
		    checked_at = excluded.checked_at,
		    changed_at = excluded.changed_at`,
		state.Version,
		timeToUnixMillis(state.CheckedAt),
		timeToUnixMillis(state.ChangedAt),
	)
	if err != nil {
		return fmt.Errorf("put cache version: %w", err)
	}
	return nil
}

func (s *Store) ready() error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

var _ storage.Store = (*Store)(nil)
