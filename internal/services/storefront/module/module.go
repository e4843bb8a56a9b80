// Package module defines the feature contract used by storefront composition.
package module

import (
	"context"
	"net/http"

	"github.com/louisbranch/storefront/internal/services/storefront/availability"
	"github.com/louisbranch/storefront/internal/services/storefront/backend"
	"github.com/louisbranch/storefront/internal/services/storefront/layoutgate"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/requestmeta"
	"github.com/louisbranch/storefront/internal/services/storefront/segments"
)

// CatalogClient reads regions and products, possibly through the cache.
type CatalogClient interface {
	ListRegions(context.Context) ([]backend.Region, error)
	ListProducts(context.Context, backend.ProductQuery) (backend.ProductPage, error)
	GetProductByHandle(ctx context.Context, handle string, regionID string) (backend.Product, error)
}

// AccountClient exercises customer-scoped backend operations.
type AccountClient interface {
	Login(ctx context.Context, email string, password string) (string, error)
	ListOrders(ctx context.Context, token string, limit int, offset int) (backend.OrderPage, error)
	RetrieveOrder(ctx context.Context, token string, orderID string) (backend.Order, error)
	ListQuotes(ctx context.Context, token string, limit int, offset int) (backend.QuotePage, error)
	RetrieveQuote(ctx context.Context, token string, quoteID string) (backend.Quote, error)
}

// Dependencies carries the shared clients and resolvers modules mount with.
type Dependencies struct {
	Segments        *segments.Resolver
	Catalog         CatalogClient
	Accounts        AccountClient
	ResolveCustomer layoutgate.Resolver
	SchemePolicy    requestmeta.SchemePolicy
	Thresholds      availability.Thresholds
}

// Mount describes the mux patterns a module owns and the handler serving them.
type Mount struct {
	Prefixes []string
	Handler  http.Handler
}

// Module declares the minimum contract required by storefront composition.
type Module interface {
	ID() string
	Mount(Dependencies) (Mount, error)
}
