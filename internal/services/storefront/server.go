// Package storefront hosts the localized storefront HTTP service.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/storefront/internal/platform/timeouts"
	"github.com/louisbranch/storefront/internal/services/storefront/app"
	"github.com/louisbranch/storefront/internal/services/storefront/availability"
	"github.com/louisbranch/storefront/internal/services/storefront/backend"
	"github.com/louisbranch/storefront/internal/services/storefront/cachesync"
	module "github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/modules"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/httpx"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/observability"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/requestmeta"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/weberror"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
	"github.com/louisbranch/storefront/internal/services/storefront/segments"
	storefrontstatic "github.com/louisbranch/storefront/internal/services/storefront/static"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"

	platformi18n "github.com/louisbranch/storefront/internal/platform/i18n"
)

// Backend is the commerce backend surface the storefront consumes.
type Backend interface {
	module.CatalogClient
	module.AccountClient
	CustomerClient
	GetCacheVersion(ctx context.Context) (backend.CacheVersion, error)
}

// Config defines startup inputs for the storefront service.
type Config struct {
	HTTPAddr  string
	Countries []string
	Backend   Backend
	// CacheStore enables the catalog cache; nil serves uncached.
	CacheStore          storage.Store
	CacheTTL            time.Duration
	CacheSyncInterval   time.Duration
	TrustForwardedProto bool
	Thresholds          availability.Thresholds
}

// Server hosts the storefront HTTP surface and lifecycle.
type Server struct {
	httpAddr          string
	httpServer        *http.Server
	cacheStore        storage.Store
	versions          cachesync.VersionSource
	cacheSyncInterval time.Duration
}

// NewHandler builds the root handler from the default module registry.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Backend == nil {
		return nil, errors.New("backend client is required")
	}
	resolver, err := segments.NewResolver(cfg.Countries, platformi18n.SupportedCodes())
	if err != nil {
		return nil, fmt.Errorf("segment resolver: %w", err)
	}
	var catalog module.CatalogClient = cfg.Backend
	if cfg.CacheStore != nil {
		catalog = cachesync.NewCachedCatalog(cfg.Backend, cfg.CacheStore, cfg.CacheTTL)
	}
	principal := newPrincipalResolver(cfg.Backend)
	deps := module.Dependencies{
		Segments:        resolver,
		Catalog:         catalog,
		Accounts:        cfg.Backend,
		ResolveCustomer: principal.resolveSession,
		SchemePolicy:    requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto},
		Thresholds:      cfg.Thresholds,
	}
	h, err := app.Composer{}.Compose(app.ComposeInput{
		Dependencies:   deps,
		PublicModules:  modules.DefaultPublicModules(),
		SegmentModules: modules.DefaultSegmentModules(),
		NotFound:       weberror.NotFound(),
	})
	if err != nil {
		return nil, err
	}
	rootMux := http.NewServeMux()
	rootMux.Handle(routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(storefrontstatic.FS))))
	rootMux.Handle(routepath.Root, withRequestPrincipalState(h))
	return httpx.Chain(rootMux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		observability.Tracing(),
		observability.RequestLogger(log.Default()),
	), nil
}

// NewServer validates config and constructs a storefront server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose storefront handler: %w", err)
	}
	interval := cfg.CacheSyncInterval
	if interval <= 0 {
		interval = timeouts.CacheSync
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		cacheStore:        cfg.CacheStore,
		versions:          cfg.Backend,
		cacheSyncInterval: interval,
	}, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or server
// stop. The cache sync worker runs alongside when a cache store is set.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("storefront server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}
	if s.cacheStore != nil {
		stopSync := cachesync.Start(s.cacheStore, s.versions, s.cacheSyncInterval)
		defer stopSync()
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("storefront listening on %s", s.httpAddr)
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown storefront http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve storefront http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
