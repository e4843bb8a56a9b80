// Package store serves the catalog pages: home, paged listing and product
// detail.
package store

import (
	"errors"
	"net/http"

	module "github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

// Module provides catalog routes under the segment pair.
type Module struct{}

// New returns a store module.
func New() Module { return Module{} }

// ID returns a stable module identifier.
func (Module) ID() string { return "store" }

// Mount wires catalog route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	if deps.Catalog == nil {
		return module.Mount{}, errors.New("catalog client is required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(deps)))
	return module.Mount{
		Prefixes: []string{
			routepath.SegmentPattern,
			routepath.HomePattern,
			routepath.StorePattern,
			routepath.ProductsPrefix,
		},
		Handler: mux,
	}, nil
}
