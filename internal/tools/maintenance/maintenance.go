// Package maintenance implements operator commands against the commerce
// backend database: cache version management and catalog hygiene checks.
package maintenance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/storefront/internal/platform/cmd"
)

// Config holds maintenance command configuration.
type Config struct {
	DatabaseURL string        `env:"STOREFRONT_MAINTENANCE_DATABASE_URL"`
	Timeout     time.Duration `env:"STOREFRONT_MAINTENANCE_TIMEOUT" envDefault:"10m"`
	JSONOutput  bool
}

// ParseConfig loads environment defaults; flags are bound by NewCommand.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// CacheVersion is the single cache_version row.
type CacheVersion struct {
	ID      string `json:"id"`
	Version int64  `json:"version"`
}

// ProductCounts summarizes live catalog rows.
type ProductCounts struct {
	Products          int `json:"products"`
	PublishedProducts int `json:"published_products"`
	Variants          int `json:"variants"`
}

// Store is the backend database surface used by maintenance commands.
type Store interface {
	MigrateCacheVersion(ctx context.Context) (CacheVersion, error)
	BumpCacheVersion(ctx context.Context) (int64, error)
	ProductCounts(ctx context.Context) (ProductCounts, error)
	CountOrphanInventoryItems(ctx context.Context) (int, error)
	DeleteOrphanInventoryItems(ctx context.Context) (int, error)
	Close() error
}

// Opener connects to the backend database.
type Opener func(ctx context.Context, databaseURL string) (Store, error)

type migrateResult struct {
	Mode string `json:"mode"`
	CacheVersion
}

type bumpResult struct {
	Mode    string `json:"mode"`
	Version int64  `json:"version"`
}

type productsResult struct {
	Mode string `json:"mode"`
	ProductCounts
}

type cleanResult struct {
	Mode    string `json:"mode"`
	DryRun  bool   `json:"dry_run"`
	Orphans int    `json:"orphans"`
	Deleted int    `json:"deleted"`
}

func runMigrate(ctx context.Context, store Store, jsonOutput bool, out io.Writer) error {
	current, err := store.MigrateCacheVersion(ctx)
	if err != nil {
		return fmt.Errorf("migrate cache_version: %w", err)
	}
	if jsonOutput {
		return writeJSON(out, migrateResult{Mode: "migrate", CacheVersion: current})
	}
	fmt.Fprintf(out, "cache_version ready: id=%s version=%d\n", current.ID, current.Version)
	return nil
}

func runBumpCacheVersion(ctx context.Context, store Store, jsonOutput bool, out io.Writer) error {
	version, err := store.BumpCacheVersion(ctx)
	if err != nil {
		return fmt.Errorf("bump cache version: %w", err)
	}
	if jsonOutput {
		return writeJSON(out, bumpResult{Mode: "bump-cache-version", Version: version})
	}
	fmt.Fprintf(out, "cache version bumped to %d\n", version)
	return nil
}

func runCheckProducts(ctx context.Context, store Store, jsonOutput bool, out io.Writer, errOut io.Writer) error {
	counts, err := store.ProductCounts(ctx)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if counts.Products > 0 && counts.PublishedProducts == 0 {
		fmt.Fprintln(errOut, "Warning: no published products; the storefront catalog will be empty")
	}
	if jsonOutput {
		return writeJSON(out, productsResult{Mode: "check-products", ProductCounts: counts})
	}
	fmt.Fprintf(out, "products: %d\n", counts.Products)
	fmt.Fprintf(out, "published products: %d\n", counts.PublishedProducts)
	fmt.Fprintf(out, "variants: %d\n", counts.Variants)
	return nil
}

func runCleanInventoryItems(ctx context.Context, store Store, dryRun bool, jsonOutput bool, out io.Writer) error {
	orphans, err := store.CountOrphanInventoryItems(ctx)
	if err != nil {
		return fmt.Errorf("count orphan inventory items: %w", err)
	}
	result := cleanResult{Mode: "clean-inventory-items", DryRun: dryRun, Orphans: orphans}
	if !dryRun && orphans > 0 {
		deleted, err := store.DeleteOrphanInventoryItems(ctx)
		if err != nil {
			return fmt.Errorf("delete orphan inventory items: %w", err)
		}
		result.Deleted = deleted
	}
	if jsonOutput {
		return writeJSON(out, result)
	}
	if dryRun {
		fmt.Fprintf(out, "orphan inventory items: %d (dry run, nothing deleted)\n", orphans)
		return nil
	}
	fmt.Fprintf(out, "deleted orphan inventory items: %d\n", result.Deleted)
	return nil
}

func writeJSON(out io.Writer, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = fmt.Fprintln(out, string(encoded))
	return err
}

// withStore opens the database for one command and owns its lifecycle.
func withStore(ctx context.Context, cfg Config, open Opener, errOut io.Writer, run func(context.Context, Store) error) error {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return errors.New("database URL is required (--database-url or STOREFRONT_MAINTENANCE_DATABASE_URL)")
	}
	if open == nil {
		return errors.New("database opener is required")
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	store, err := open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			fmt.Fprintf(errOut, "Error: close database: %v\n", closeErr)
		}
	}()
	return run(ctx, store)
}
