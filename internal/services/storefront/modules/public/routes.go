package public

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

const countryPattern = "/{" + routepath.CountryCodeParam + "}"

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Health, h.handleHealth)
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", h.handleRoot)
	mux.HandleFunc(http.MethodGet+" "+countryPattern, h.handleCountry)
}
