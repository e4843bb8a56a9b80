// Package modules lists the storefront feature modules.
package modules

import (
	module "github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/modules/account"
	"github.com/louisbranch/storefront/internal/services/storefront/modules/public"
	"github.com/louisbranch/storefront/internal/services/storefront/modules/store"
)

// DefaultPublicModules returns modules mounted outside the segment pair.
func DefaultPublicModules() []module.Module {
	return []module.Module{
		public.New(),
	}
}

// DefaultSegmentModules returns modules mounted under /{countryCode}/{lang}.
func DefaultSegmentModules() []module.Module {
	return []module.Module{
		store.New(),
		account.New(),
	}
}
