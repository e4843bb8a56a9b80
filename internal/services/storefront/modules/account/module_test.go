package account

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/storefront/internal/services/storefront/backend"
	"github.com/louisbranch/storefront/internal/services/storefront/layoutgate"
	module "github.com/louisbranch/storefront/internal/services/storefront/module"
	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/sessioncookie"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/weberror"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
	"github.com/louisbranch/storefront/internal/services/storefront/segments"
)

type fakeAccounts struct {
	loginToken string
	loginErr   error
	orders     []backend.Order
	ordersErr  error
	quotes     []backend.Quote
	quotesErr  error
}

func (f fakeAccounts) Login(context.Context, string, string) (string, error) {
	return f.loginToken, f.loginErr
}

func (f fakeAccounts) ListOrders(_ context.Context, _ string, limit int, _ int) (backend.OrderPage, error) {
	if f.ordersErr != nil {
		return backend.OrderPage{}, f.ordersErr
	}
	orders := f.orders
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return backend.OrderPage{Orders: orders, Count: len(f.orders)}, nil
}

func (f fakeAccounts) RetrieveOrder(_ context.Context, _ string, orderID string) (backend.Order, error) {
	for _, order := range f.orders {
		if order.ID == orderID {
			return order, nil
		}
	}
	return backend.Order{}, apperrors.EK(apperrors.KindNotFound, "error.not_found.title", "order not found")
}

func (f fakeAccounts) ListQuotes(context.Context, string, int, int) (backend.QuotePage, error) {
	if f.quotesErr != nil {
		return backend.QuotePage{}, f.quotesErr
	}
	return backend.QuotePage{Quotes: f.quotes, Count: len(f.quotes)}, nil
}

func (f fakeAccounts) RetrieveQuote(_ context.Context, _ string, quoteID string) (backend.Quote, error) {
	for _, quote := range f.quotes {
		if quote.ID == quoteID {
			return quote, nil
		}
	}
	return backend.Quote{}, apperrors.EK(apperrors.KindNotFound, "error.not_found.title", "quote not found")
}

var placed = time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC)

func sampleAccounts() fakeAccounts {
	return fakeAccounts{
		loginToken: "jwt-token",
		orders: []backend.Order{{
			ID:           "order_1",
			DisplayID:    42,
			Status:       "completed",
			Total:        79.8,
			CurrencyCode: "eur",
			CreatedAt:    placed,
			Items:        []backend.LineItem{{ID: "li_1", Title: "Linen tee", Quantity: 2, UnitPrice: 39.9}},
		}},
		quotes: []backend.Quote{{ID: "quote_1", DisplayID: 7, Status: "pending_merchant", Total: 120, CurrencyCode: "eur", CreatedAt: placed}},
	}
}

func signedIn(*http.Request) (layoutgate.Session, error) {
	return layoutgate.Session{Token: "jwt-token", Customer: backend.Customer{Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace"}}, nil
}

func signedOut(*http.Request) (layoutgate.Session, error) {
	return layoutgate.Session{}, layoutgate.ErrNoSession
}

func mountAccount(t *testing.T, accounts module.AccountClient, resolve layoutgate.Resolver) http.Handler {
	t.Helper()
	resolver, err := segments.NewResolver([]string{"it", "sm", "va"}, []string{"it", "en"})
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	mount, err := New().Mount(module.Dependencies{Segments: resolver, Accounts: accounts, ResolveCustomer: resolve})
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return segments.Require(resolver, weberror.NotFound())(mount.Handler)
}

func get(handler http.Handler, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func postForm(handler http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func sessionCookie(rr *httptest.ResponseRecorder) (*http.Cookie, bool) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == sessioncookie.Name {
			return cookie, true
		}
	}
	return nil, false
}

func TestMountRequiresAccountClient(t *testing.T) {
	t.Parallel()

	if _, err := New().Mount(module.Dependencies{}); err == nil {
		t.Fatal("expected error without account client")
	}
	if got := New().ID(); got != "account" {
		t.Fatalf("ID() = %q", got)
	}
}

func TestGatedPagesRenderLoginInPlace(t *testing.T) {
	t.Parallel()

	handler := mountAccount(t, sampleAccounts(), signedOut)
	for _, target := range []string{
		"/it/en/account",
		"/it/en/account/",
		"/it/en/account/orders",
		"/it/en/account/orders/order_1",
		"/it/en/account/quotes",
		"/it/en/account/quotes/quote_1",
		"/it/en/account/profile",
	} {
		rr := get(handler, target)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, want 200", target, rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "" {
			t.Fatalf("%s: unexpected redirect to %q", target, loc)
		}
		body := rr.Body.String()
		if !strings.Contains(body, `action="/it/en/account/login"`) {
			t.Fatalf("%s: login form missing:\n%s", target, body)
		}
		if !strings.Contains(body, `name="return_to" value="`+target+`"`) {
			t.Fatalf("%s: return_to missing:\n%s", target, body)
		}
	}
}

func TestGateFallsBackToLoginOnResolverFailure(t *testing.T) {
	t.Parallel()

	failing := func(*http.Request) (layoutgate.Session, error) {
		return layoutgate.Session{}, apperrors.Wrap(apperrors.KindUnavailable, "retrieve customer", errors.New("connection refused"))
	}
	rr := get(mountAccount(t, sampleAccounts(), failing), "/it/it/account")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "<h1>Accedi</h1>") {
		t.Fatalf("expected italian login form:\n%s", rr.Body.String())
	}
}

func TestStaleSessionIsCleared(t *testing.T) {
	t.Parallel()

	stale := func(*http.Request) (layoutgate.Session, error) {
		return layoutgate.Session{}, layoutgate.ErrStaleSession
	}
	rr := get(mountAccount(t, sampleAccounts(), stale), "/it/en/account/orders")
	cookie, ok := sessionCookie(rr)
	if !ok || cookie.MaxAge >= 0 {
		t.Fatalf("expected cleared session cookie, got %+v", cookie)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestDashboardListsRecentActivity(t *testing.T) {
	t.Parallel()

	rr := get(mountAccount(t, sampleAccounts(), signedIn), "/it/en/account")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, marker := range []string{
		"Hello, Ada Lovelace",
		`href="/it/en/account/orders/order_1"`,
		"Order #42",
		"Mar 4, 2026",
		"€79.80",
		`href="/it/en/account/quotes/quote_1"`,
		"Quote #7",
	} {
		if !strings.Contains(body, marker) {
			t.Fatalf("body missing %q:\n%s", marker, body)
		}
	}
}

func TestDashboardDegradesPerList(t *testing.T) {
	t.Parallel()

	accounts := sampleAccounts()
	accounts.ordersErr = apperrors.E(apperrors.KindUnavailable, "orders down")
	rr := get(mountAccount(t, accounts, signedIn), "/it/en/account")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "You have not placed any orders yet.") || !strings.Contains(body, "Quote #7") {
		t.Fatalf("unexpected body:\n%s", body)
	}
}

func TestOrderDetail(t *testing.T) {
	t.Parallel()

	handler := mountAccount(t, sampleAccounts(), signedIn)
	rr := get(handler, "/it/it/account/orders/order_1")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, marker := range []string{"04/03/2026", "Linen tee", "39,90 €", "79,80 €"} {
		if !strings.Contains(body, marker) {
			t.Fatalf("body missing %q:\n%s", marker, body)
		}
	}

	if rr := get(handler, "/it/it/account/orders/missing"); rr.Code != http.StatusNotFound {
		t.Fatalf("missing order status = %d, want 404", rr.Code)
	}
	if rr := get(handler, "/it/it/account/quotes/missing"); rr.Code != http.StatusNotFound {
		t.Fatalf("missing quote status = %d, want 404", rr.Code)
	}
}

func TestProfile(t *testing.T) {
	t.Parallel()

	rr := get(mountAccount(t, sampleAccounts(), signedIn), "/it/en/account/profile")
	if !strings.Contains(rr.Body.String(), "<dd>ada@example.com</dd>") {
		t.Fatalf("body = %s", rr.Body.String())
	}
}

func TestLoginSetsCookieAndRedirects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		returnTo string
		want     string
	}{
		{name: "account page", returnTo: "/it/en/account/orders", want: "/it/en/account/orders"},
		{name: "default", returnTo: "", want: "/it/en/account"},
		{name: "external", returnTo: "https://evil.example/account", want: "/it/en/account"},
		{name: "protocol relative", returnTo: "//evil.example/it/en/account", want: "/it/en/account"},
		{name: "outside account", returnTo: "/it/en/store", want: "/it/en/account"},
	}
	handler := mountAccount(t, sampleAccounts(), signedOut)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := postForm(handler, "/it/en/account/login", url.Values{
				"email":     {"ada@example.com"},
				"password":  {"secret"},
				"return_to": {tc.returnTo},
			})
			if rr.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want 303", rr.Code)
			}
			if got := rr.Header().Get("Location"); got != tc.want {
				t.Fatalf("Location = %q, want %q", got, tc.want)
			}
			cookie, ok := sessionCookie(rr)
			if !ok || cookie.Value != "jwt-token" || !cookie.HttpOnly {
				t.Fatalf("session cookie = %+v", cookie)
			}
		})
	}
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		form       url.Values
		loginErr   error
		wantStatus int
		wantText   string
	}{
		{
			name:       "missing password",
			form:       url.Values{"email": {"ada@example.com"}},
			wantStatus: http.StatusBadRequest,
			wantText:   "Enter your email and password.",
		},
		{
			name:       "bad credentials",
			form:       url.Values{"email": {"ada@example.com"}, "password": {"nope"}},
			loginErr:   apperrors.EK(apperrors.KindUnauthorized, "account.login.failed", "backend rejected credentials"),
			wantStatus: http.StatusUnauthorized,
			wantText:   "Invalid email or password.",
		},
		{
			name:       "backend down",
			form:       url.Values{"email": {"ada@example.com"}, "password": {"secret"}},
			loginErr:   apperrors.Wrap(apperrors.KindUnavailable, "login", errors.New("dial tcp 10.1.1.1:9000")),
			wantStatus: http.StatusServiceUnavailable,
			wantText:   "The shop is temporarily unavailable.",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			accounts := sampleAccounts()
			accounts.loginErr = tc.loginErr
			rr := postForm(mountAccount(t, accounts, signedOut), "/it/en/account/login", tc.form)
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			body := rr.Body.String()
			if !strings.Contains(body, tc.wantText) {
				t.Fatalf("body missing %q:\n%s", tc.wantText, body)
			}
			if !strings.Contains(body, `value="ada@example.com"`) {
				t.Fatalf("email not kept:\n%s", body)
			}
			if strings.Contains(body, "10.1.1.1") {
				t.Fatalf("internal error leaked:\n%s", body)
			}
			if _, ok := sessionCookie(rr); ok {
				t.Fatal("session cookie set on failure")
			}
		})
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	t.Parallel()

	handler := mountAccount(t, sampleAccounts(), signedIn)
	rr := postForm(handler, "/it/en/account/logout", url.Values{})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != "/it/en" {
		t.Fatalf("Location = %q", got)
	}
	if cookie, ok := sessionCookie(rr); !ok || cookie.MaxAge >= 0 {
		t.Fatalf("expected cleared cookie, got %+v", cookie)
	}

	if rr := get(handler, "/it/en/account/logout"); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET logout status = %d, want 405", rr.Code)
	}
}

func TestLoginGetRedirectsToAccount(t *testing.T) {
	t.Parallel()

	rr := get(mountAccount(t, sampleAccounts(), signedOut), "/sm/it/account/login")
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/sm/it/account" {
		t.Fatalf("status = %d Location = %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestUnknownAccountPathIsNotFound(t *testing.T) {
	t.Parallel()

	if rr := get(mountAccount(t, sampleAccounts(), signedIn), "/it/en/account/wishlist"); rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestSafeReturnTo(t *testing.T) {
	t.Parallel()

	seg := routepath.Segments{CountryCode: "it", Lang: "en"}
	tests := map[string]string{
		"/it/en/account":                 "/it/en/account",
		"/it/en/account/quotes/quote_1":  "/it/en/account/quotes/quote_1",
		"/it/en/account/login":           "/it/en/account",
		"/it/en/account/logout":          "/it/en/account",
		"/it/en/accounting":              "/it/en/account",
		"/it/it/account/orders":          "/it/en/account",
		`/\evil.example`:                 "/it/en/account",
		"javascript:alert(1)":            "/it/en/account",
		"/it/en/account//evil.example":   "/it/en/account",
		"/it/en/account/orders?page=2#x": "/it/en/account/orders",
	}
	for raw, want := range tests {
		if got := safeReturnTo(seg, raw); got != want {
			t.Fatalf("safeReturnTo(%q) = %q, want %q", raw, got, want)
		}
	}
}
