package account

import (
	"net/http"

	"github.com/louisbranch/storefront/internal/services/storefront/platform/httpx"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	gate := h.gate()
	mux.Handle(http.MethodGet+" "+routepath.AccountPattern, gate.Wrap(http.HandlerFunc(h.handleDashboard)))
	mux.Handle(http.MethodGet+" "+routepath.AccountHomePattern, gate.Wrap(http.HandlerFunc(h.handleDashboard)))
	mux.Handle(http.MethodGet+" "+routepath.AccountOrdersPattern, gate.Wrap(http.HandlerFunc(h.handleOrders)))
	mux.Handle(http.MethodGet+" "+routepath.AccountOrderPattern, gate.Wrap(http.HandlerFunc(h.handleOrder)))
	mux.Handle(http.MethodGet+" "+routepath.AccountQuotesPattern, gate.Wrap(http.HandlerFunc(h.handleQuotes)))
	mux.Handle(http.MethodGet+" "+routepath.AccountQuotePattern, gate.Wrap(http.HandlerFunc(h.handleQuote)))
	mux.Handle(http.MethodGet+" "+routepath.AccountProfilePattern, gate.Wrap(http.HandlerFunc(h.handleProfile)))

	mux.HandleFunc(http.MethodPost+" "+routepath.AccountLoginPattern, h.handleLogin)
	mux.HandleFunc(http.MethodGet+" "+routepath.AccountLoginPattern, h.redirectAccount)

	mux.HandleFunc(http.MethodPost+" "+routepath.AccountLogoutPattern, h.handleLogout)
	mux.HandleFunc(http.MethodGet+" "+routepath.AccountLogoutPattern, httpx.MethodNotAllowed(http.MethodPost))

	mux.HandleFunc(http.MethodGet+" "+routepath.AccountRestPattern, h.handleNotFound)
}
