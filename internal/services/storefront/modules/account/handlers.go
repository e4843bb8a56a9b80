package account

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/louisbranch/storefront/internal/services/storefront/layoutgate"
	module "github.com/louisbranch/storefront/internal/services/storefront/module"
	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/httpx"
	webi18n "github.com/louisbranch/storefront/internal/services/storefront/platform/i18n"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/pagerender"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/requestmeta"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/sessioncookie"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/weberror"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
	"github.com/louisbranch/storefront/internal/services/storefront/segments"
	"github.com/louisbranch/storefront/internal/services/storefront/templates"
)

type handlers struct {
	service         service
	resolveCustomer layoutgate.Resolver
	policy          requestmeta.SchemePolicy
}

func newHandlers(s service, deps module.Dependencies) handlers {
	return handlers{service: s, resolveCustomer: deps.ResolveCustomer, policy: deps.SchemePolicy}
}

func (h handlers) gate() layoutgate.Gate {
	return layoutgate.Gate{
		Resolve:      h.resolveCustomer,
		Login:        http.HandlerFunc(h.handleLoginForm),
		ClearSession: h.clearSession,
	}
}

func (h handlers) clearSession(w http.ResponseWriter, r *http.Request) {
	sessioncookie.Clear(w, r, h.policy)
}

func (h handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	seg, session, ok := h.requestSession(w, r)
	if !ok {
		return
	}
	loc, tag := webi18n.ResolveLocalizer(r)
	recent := h.service.overview(httpx.RequestContext(r), session.Token)
	account := accountView(seg, session, templates.AccountSectionOverview)
	h.writePage(w, r, http.StatusOK, templates.T(loc, "account.title"), templates.DashboardPage(templates.DashboardView{
		Account: account,
		Orders:  orderRows(seg, recent.orders, tag),
		Quotes:  quoteRows(seg, recent.quotes, tag),
	}, loc))
}

func (h handlers) handleOrders(w http.ResponseWriter, r *http.Request) {
	seg, session, ok := h.requestSession(w, r)
	if !ok {
		return
	}
	loc, tag := webi18n.ResolveLocalizer(r)
	orders := h.service.orders(httpx.RequestContext(r), session.Token, listLimit)
	account := accountView(seg, session, templates.AccountSectionOrders)
	h.writePage(w, r, http.StatusOK, templates.T(loc, "account.orders.title"), templates.OrdersPage(account, orderRows(seg, orders, tag), loc))
}

func (h handlers) handleOrder(w http.ResponseWriter, r *http.Request) {
	seg, session, ok := h.requestSession(w, r)
	if !ok {
		return
	}
	order, err := h.service.order(httpx.RequestContext(r), session.Token, r.PathValue("orderID"))
	if err != nil {
		h.writeLookupFailure(w, r, "order", err)
		return
	}
	loc, tag := webi18n.ResolveLocalizer(r)
	row := orderRow(seg, order, tag)
	account := accountView(seg, session, templates.AccountSectionOrders)
	h.writePage(w, r, http.StatusOK, templates.T(loc, "account.orders.number", order.DisplayID),
		templates.OrderPage(account, row, lineRows(order.Items, order.CurrencyCode, tag), loc))
}

func (h handlers) handleQuotes(w http.ResponseWriter, r *http.Request) {
	seg, session, ok := h.requestSession(w, r)
	if !ok {
		return
	}
	loc, tag := webi18n.ResolveLocalizer(r)
	quotes := h.service.quotes(httpx.RequestContext(r), session.Token, listLimit)
	account := accountView(seg, session, templates.AccountSectionQuotes)
	h.writePage(w, r, http.StatusOK, templates.T(loc, "account.quotes.title"), templates.QuotesPage(account, quoteRows(seg, quotes, tag), loc))
}

func (h handlers) handleQuote(w http.ResponseWriter, r *http.Request) {
	seg, session, ok := h.requestSession(w, r)
	if !ok {
		return
	}
	quote, err := h.service.quote(httpx.RequestContext(r), session.Token, r.PathValue("quoteID"))
	if err != nil {
		h.writeLookupFailure(w, r, "quote", err)
		return
	}
	loc, tag := webi18n.ResolveLocalizer(r)
	row := quoteRow(seg, quote, tag)
	account := accountView(seg, session, templates.AccountSectionQuotes)
	h.writePage(w, r, http.StatusOK, templates.T(loc, "account.quotes.number", row.Label),
		templates.QuotePage(account, row, lineRows(quote.Items, quote.CurrencyCode, tag), loc))
}

func (h handlers) handleProfile(w http.ResponseWriter, r *http.Request) {
	seg, session, ok := h.requestSession(w, r)
	if !ok {
		return
	}
	loc, _ := webi18n.ResolveLocalizer(r)
	customer := session.Customer
	h.writePage(w, r, http.StatusOK, templates.T(loc, "account.profile.title"), templates.ProfilePage(templates.ProfileView{
		Account: accountView(seg, session, templates.AccountSectionProfile),
		Email:   customer.Email,
		Name:    strings.TrimSpace(customer.FirstName + " " + customer.LastName),
		Phone:   customer.Phone,
		Company: customer.CompanyName,
	}, loc))
}

// handleLoginForm is the unauthenticated branch of every gated page.
func (h handlers) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	seg, ok := segments.FromRequest(r)
	if !ok {
		h.handleNotFound(w, r)
		return
	}
	h.renderLogin(w, r, http.StatusOK, templates.LoginView{
		Action:   routepath.LoginPath(seg),
		ReturnTo: safeReturnTo(seg, r.URL.Path),
	})
}

func (h handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	seg, ok := segments.FromRequest(r)
	if !ok {
		h.handleNotFound(w, r)
		return
	}
	view := templates.LoginView{Action: routepath.LoginPath(seg), ReturnTo: routepath.AccountPath(seg, "")}
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, view, apperrors.EK(apperrors.KindInvalidInput, "error.bad_request", "failed to parse login form"))
		return
	}
	view.Email = strings.TrimSpace(r.FormValue("email"))
	view.ReturnTo = safeReturnTo(seg, r.FormValue("return_to"))

	token, err := h.service.login(httpx.RequestContext(r), view.Email, r.FormValue("password"))
	if err != nil {
		h.renderLoginError(w, r, view, err)
		return
	}
	sessioncookie.Write(w, r, token, h.policy)
	httpx.WriteRedirect(w, r, view.ReturnTo, http.StatusSeeOther)
}

func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	seg, ok := segments.FromRequest(r)
	if !ok {
		h.handleNotFound(w, r)
		return
	}
	sessioncookie.Clear(w, r, h.policy)
	httpx.WriteRedirect(w, r, routepath.StorePath(seg, ""), http.StatusSeeOther)
}

func (h handlers) redirectAccount(w http.ResponseWriter, r *http.Request) {
	seg, ok := segments.FromRequest(r)
	if !ok {
		h.handleNotFound(w, r)
		return
	}
	httpx.WriteRedirect(w, r, routepath.AccountPath(seg, ""), http.StatusFound)
}

func (handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteNotFound(w, r)
}

func (h handlers) renderLoginError(w http.ResponseWriter, r *http.Request, view templates.LoginView, err error) {
	statusCode := http.StatusServiceUnavailable
	switch apperrors.KindOf(err) {
	case apperrors.KindInvalidInput:
		statusCode = http.StatusBadRequest
	case apperrors.KindUnauthorized:
		statusCode = http.StatusUnauthorized
	default:
		log.Printf("account: login failed: %v", err)
		err = apperrors.EK(apperrors.KindUnavailable, "error.unavailable", "login unavailable")
	}
	loc, _ := webi18n.ResolveLocalizer(r)
	view.Error = weberror.PublicMessage(loc, err)
	h.renderLogin(w, r, statusCode, view)
}

func (h handlers) renderLogin(w http.ResponseWriter, r *http.Request, statusCode int, view templates.LoginView) {
	loc, _ := webi18n.ResolveLocalizer(r)
	h.writePage(w, r, statusCode, templates.T(loc, "account.login.title"), templates.LoginPage(view, loc))
}

func (h handlers) writeLookupFailure(w http.ResponseWriter, r *http.Request, what string, err error) {
	if !apperrors.Is(err, apperrors.KindNotFound) {
		log.Printf("account: %s lookup failed path=%s: %v", what, r.URL.Path, err)
	}
	h.handleNotFound(w, r)
}

// requestSession returns the gate-resolved session; outside the gate it
// serves the login branch and reports false.
func (h handlers) requestSession(w http.ResponseWriter, r *http.Request) (routepath.Segments, layoutgate.Session, bool) {
	seg, ok := segments.FromRequest(r)
	if !ok {
		h.handleNotFound(w, r)
		return routepath.Segments{}, layoutgate.Session{}, false
	}
	session, ok := layoutgate.SessionFromContext(r.Context())
	if !ok {
		h.handleLoginForm(w, r)
		return routepath.Segments{}, layoutgate.Session{}, false
	}
	return seg, session, true
}

func (handlers) writePage(w http.ResponseWriter, r *http.Request, statusCode int, title string, fragment templ.Component) {
	if err := pagerender.Write(w, r, pagerender.Page{Title: title, StatusCode: statusCode, Fragment: fragment}); err != nil {
		weberror.WriteModuleError(w, r, err)
	}
}

// safeReturnTo keeps post-login redirects inside the account area of the
// current segment pair.
func safeReturnTo(seg routepath.Segments, raw string) string {
	fallback := routepath.AccountPath(seg, "")
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "\\") || strings.HasPrefix(raw, "//") {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" || strings.Contains(u.Path, "//") {
		return fallback
	}
	if u.Path != fallback && !strings.HasPrefix(u.Path, fallback+"/") {
		return fallback
	}
	if u.Path == routepath.LoginPath(seg) || u.Path == routepath.LogoutPath(seg) {
		return fallback
	}
	return u.Path
}
