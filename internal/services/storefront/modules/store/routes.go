package store

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.SegmentPattern, h.handleHome)
	mux.HandleFunc(http.MethodGet+" "+routepath.HomePattern, h.handleHome)
	mux.HandleFunc(http.MethodGet+" "+routepath.StorePattern, h.handleList)
	mux.HandleFunc(http.MethodGet+" "+routepath.ProductPattern, h.handleProduct)
	mux.HandleFunc(http.MethodGet+" "+routepath.ProductsRestPattern, h.handleNotFound)
}
