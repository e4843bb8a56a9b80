// Package public serves the routes that live outside the country/language
// segment pair: health and the entry redirects into the storefront.
package public

import (
	"errors"
	"net/http"

	module "github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

// Module provides public root routes.
type Module struct{}

// New returns a public module.
func New() Module { return Module{} }

// ID returns a stable module identifier.
func (Module) ID() string { return "public" }

// Mount wires public route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	if deps.Segments == nil {
		return module.Mount{}, errors.New("segment resolver is required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(deps.Segments))
	return module.Mount{
		Prefixes: []string{routepath.Health, routepath.Root + "{$}", countryPattern},
		Handler:  mux,
	}, nil
}
