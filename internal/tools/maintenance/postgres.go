package maintenance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const pingTimeout = 5 * time.Second

const createCacheVersionTable = `
CREATE TABLE IF NOT EXISTS cache_version (
	id TEXT PRIMARY KEY,
	version BIGINT NOT NULL DEFAULT 1,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const seedCacheVersion = `
INSERT INTO cache_version (id, version)
SELECT $1, 1
WHERE NOT EXISTS (SELECT 1 FROM cache_version)`

// Inventory items count as orphaned when no live variant link points at them.
const orphanInventoryItemsWhere = `
ii.deleted_at IS NULL
AND NOT EXISTS (
	SELECT 1 FROM product_variant_inventory_item pvii
	JOIN product_variant pv ON pv.id = pvii.variant_id AND pv.deleted_at IS NULL
	WHERE pvii.inventory_item_id = ii.id AND pvii.deleted_at IS NULL
)`

type postgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to the backend Postgres database through pgx.
func OpenPostgres(ctx context.Context, databaseURL string) (Store, error) {
	databaseURL = strings.TrimSpace(databaseURL)
	if databaseURL == "" {
		return nil, errors.New("database URL is required")
	}
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &postgresStore{db: db}, nil
}

func (s *postgresStore) Close() error {
	return s.db.Close()
}

func (s *postgresStore) MigrateCacheVersion(ctx context.Context) (CacheVersion, error) {
	if _, err := s.db.ExecContext(ctx, createCacheVersionTable); err != nil {
		return CacheVersion{}, fmt.Errorf("create table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, seedCacheVersion, "cv_"+uuid.NewString()); err != nil {
		return CacheVersion{}, fmt.Errorf("seed row: %w", err)
	}
	var current CacheVersion
	err := s.db.QueryRowContext(ctx, `SELECT id, version FROM cache_version ORDER BY created_at LIMIT 1`).
		Scan(&current.ID, &current.Version)
	if err != nil {
		return CacheVersion{}, fmt.Errorf("read row: %w", err)
	}
	return current, nil
}

func (s *postgresStore) BumpCacheVersion(ctx context.Context) (int64, error) {
	var version int64
	err := s.db.QueryRowContext(ctx, `UPDATE cache_version SET version = version + 1, updated_at = now() RETURNING version`).
		Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errors.New("cache_version has no row; run migrate first")
	}
	if err != nil {
		return 0, err
	}
	return version, nil
}

func (s *postgresStore) ProductCounts(ctx context.Context) (ProductCounts, error) {
	var counts ProductCounts
	err := s.db.QueryRowContext(ctx, `
SELECT
	(SELECT count(*) FROM product WHERE deleted_at IS NULL),
	(SELECT count(*) FROM product WHERE deleted_at IS NULL AND status = 'published'),
	(SELECT count(*) FROM product_variant WHERE deleted_at IS NULL)`).
		Scan(&counts.Products, &counts.PublishedProducts, &counts.Variants)
	if err != nil {
		return ProductCounts{}, err
	}
	return counts, nil
}

func (s *postgresStore) CountOrphanInventoryItems(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM inventory_item ii WHERE `+orphanInventoryItemsWhere).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteOrphanInventoryItems soft-deletes orphaned items and their stock
// levels in one transaction.
func (s *postgresStore) DeleteOrphanInventoryItems(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
UPDATE inventory_level il SET deleted_at = now()
WHERE il.deleted_at IS NULL
AND il.inventory_item_id IN (SELECT ii.id FROM inventory_item ii WHERE `+orphanInventoryItemsWhere+`)`); err != nil {
		return 0, fmt.Errorf("delete inventory levels: %w", err)
	}
	res, err := tx.ExecContext(ctx, `UPDATE inventory_item ii SET deleted_at = now() WHERE `+orphanInventoryItemsWhere)
	if err != nil {
		return 0, fmt.Errorf("delete inventory items: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return int(affected), nil
}
