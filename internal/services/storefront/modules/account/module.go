// Package account serves the customer area. Every page is gated: requests
// without a usable session see the login form at the requested URL.
package account

import (
	"errors"
	"net/http"

	module "github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

// Module provides account routes under the segment pair.
type Module struct{}

// New returns an account module.
func New() Module { return Module{} }

// ID returns a stable module identifier.
func (Module) ID() string { return "account" }

// Mount wires account route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	if deps.Accounts == nil {
		return module.Mount{}, errors.New("account client is required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(deps.Accounts), deps))
	return module.Mount{
		Prefixes: []string{routepath.AccountPattern, routepath.AccountPrefix},
		Handler:  mux,
	}, nil
}
