// Package web parses storefront command flags and launches the storefront runtime.
package web

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	entrypoint "github.com/louisbranch/storefront/internal/platform/cmd"
	"github.com/louisbranch/storefront/internal/platform/config"
	platformgrpc "github.com/louisbranch/storefront/internal/platform/grpc"
	"github.com/louisbranch/storefront/internal/platform/timeouts"
	"github.com/louisbranch/storefront/internal/services/storefront"
	"github.com/louisbranch/storefront/internal/services/storefront/availability"
	"github.com/louisbranch/storefront/internal/services/storefront/backend"
	"github.com/louisbranch/storefront/internal/services/storefront/cachesync"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
	"github.com/louisbranch/storefront/internal/services/storefront/storage/sqlite"
)

// Config holds storefront command configuration.
type Config struct {
	HTTPAddr            string        `env:"STOREFRONT_HTTP_ADDR" envDefault:"localhost:8000"`
	BackendURL          string        `env:"STOREFRONT_BACKEND_URL" envDefault:"http://localhost:9000"`
	PublishableKey      string        `env:"STOREFRONT_PUBLISHABLE_KEY"`
	CountryCodes        string        `env:"STOREFRONT_COUNTRY_CODES" envDefault:"it,sm,va"`
	CacheDBPath         string        `env:"STOREFRONT_CACHE_DB_PATH"`
	CacheTTL            time.Duration `env:"STOREFRONT_CACHE_TTL" envDefault:"10m"`
	CacheSyncInterval   time.Duration `env:"STOREFRONT_CACHE_SYNC_INTERVAL" envDefault:"30s"`
	BackendTimeout      time.Duration `env:"STOREFRONT_BACKEND_TIMEOUT" envDefault:"5s"`
	GRPCHealthAddr      string        `env:"STOREFRONT_GRPC_HEALTH_ADDR"`
	TrustForwardedProto bool          `env:"STOREFRONT_TRUST_FORWARDED_PROTO"`
	StockLow            int           `env:"STOREFRONT_STOCK_LOW" envDefault:"5"`
	StockMedium         int           `env:"STOREFRONT_STOCK_MEDIUM" envDefault:"20"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.BackendURL, "backend-url", cfg.BackendURL, "Commerce backend base URL")
	fs.StringVar(&cfg.CountryCodes, "countries", cfg.CountryCodes, "Comma separated allowed country codes; the first is the default")
	fs.StringVar(&cfg.CacheDBPath, "cache-db", cfg.CacheDBPath, "SQLite cache database path (empty disables caching)")
	fs.DurationVar(&cfg.CacheSyncInterval, "cache-sync-interval", cfg.CacheSyncInterval, "Cache version poll interval")
	fs.StringVar(&cfg.GRPCHealthAddr, "grpc-health-addr", cfg.GRPCHealthAddr, "Optional gRPC health listen address")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Trust X-Forwarded-Proto for secure cookies")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if len(config.SplitList(cfg.CountryCodes)) == 0 {
		return Config{}, fmt.Errorf("at least one country code is required")
	}
	if cfg.StockLow < 0 || cfg.StockMedium < cfg.StockLow {
		return Config{}, fmt.Errorf("stock thresholds must satisfy 0 <= low <= medium, got low=%d medium=%d", cfg.StockLow, cfg.StockMedium)
	}
	return cfg, nil
}

// Run starts the storefront runtime.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceStorefront, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

func run(ctx context.Context, cfg Config) error {
	timeout := cfg.BackendTimeout
	if timeout <= 0 {
		timeout = timeouts.BackendRequest
	}
	client, err := backend.New(backend.Config{
		BaseURL:        cfg.BackendURL,
		PublishableKey: cfg.PublishableKey,
		Timeout:        timeout,
	})
	if err != nil {
		return fmt.Errorf("init backend client: %w", err)
	}

	var store storage.Store
	if path := strings.TrimSpace(cfg.CacheDBPath); path != "" {
		sqliteStore, err := sqlite.Open(path)
		if err != nil {
			return fmt.Errorf("open cache store: %w", err)
		}
		defer func() {
			if err := sqliteStore.Close(); err != nil {
				log.Printf("close cache store: %v", err)
			}
		}()
		store = sqliteStore
	} else {
		log.Printf("cache store disabled, serving catalog uncached")
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = cachesync.DefaultTTL
	}
	server, err := storefront.NewServer(ctx, storefront.Config{
		HTTPAddr:            cfg.HTTPAddr,
		Countries:           config.SplitList(cfg.CountryCodes),
		Backend:             client,
		CacheStore:          store,
		CacheTTL:            ttl,
		CacheSyncInterval:   cfg.CacheSyncInterval,
		TrustForwardedProto: cfg.TrustForwardedProto,
		Thresholds:          availability.Thresholds{Low: cfg.StockLow, Medium: cfg.StockMedium},
	})
	if err != nil {
		return fmt.Errorf("init storefront server: %w", err)
	}
	defer server.Close()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.ListenAndServe(groupCtx); err != nil {
			return fmt.Errorf("serve storefront: %w", err)
		}
		return nil
	})
	if addr := strings.TrimSpace(cfg.GRPCHealthAddr); addr != "" {
		group.Go(func() error {
			log.Printf("grpc health listening on %s", addr)
			return platformgrpc.ServeHealth(groupCtx, addr, entrypoint.ServiceStorefront)
		})
	}
	return group.Wait()
}
