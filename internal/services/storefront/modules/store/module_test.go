package store

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/louisbranch/storefront/internal/services/storefront/backend"
	module "github.com/louisbranch/storefront/internal/services/storefront/module"
	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/weberror"
	"github.com/louisbranch/storefront/internal/services/storefront/segments"
)

type fakeCatalog struct {
	mu         sync.Mutex
	regions    []backend.Region
	regionsErr error
	page       backend.ProductPage
	listErr    error
	products   map[string]backend.Product
	queries    []backend.ProductQuery
}

func (f *fakeCatalog) ListRegions(context.Context) ([]backend.Region, error) {
	return f.regions, f.regionsErr
}

func (f *fakeCatalog) ListProducts(_ context.Context, query backend.ProductQuery) (backend.ProductPage, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return f.page, f.listErr
}

func (f *fakeCatalog) GetProductByHandle(_ context.Context, handle string, _ string) (backend.Product, error) {
	product, ok := f.products[handle]
	if !ok {
		return backend.Product{}, apperrors.EK(apperrors.KindNotFound, "error.not_found.title", "product not found")
	}
	return product, nil
}

func euro(amount float64) *backend.Price {
	return &backend.Price{Amount: amount, CurrencyCode: "eur"}
}

func newCatalog() *fakeCatalog {
	tee := backend.Product{
		ID:     "prod_tee",
		Handle: "tee",
		Title:  "Linen tee",
		Options: []backend.ProductOption{
			{ID: "opt_color", Title: "Color", Values: []string{"Sand", "Ink"}},
			{ID: "opt_size", Title: "Size", Values: []string{"S", "M"}},
		},
		Variants: []backend.Variant{
			{ID: "v1", Options: map[string]string{"Color": "Sand", "Size": "S"}, Price: euro(39.9), InventoryQuantity: 3, ManageInventory: true},
			{ID: "v2", Options: map[string]string{"Color": "Sand", "Size": "M"}, Price: euro(42), InventoryQuantity: 0, ManageInventory: true},
			{ID: "v3", Options: map[string]string{"Color": "Ink", "Size": "S"}, Price: euro(39.9), InventoryQuantity: 50, ManageInventory: true},
		},
	}
	return &fakeCatalog{
		regions:  []backend.Region{{ID: "reg_eu", Name: "Europe", CurrencyCode: "eur", Countries: []string{"it", "sm"}}},
		page:     backend.ProductPage{Products: []backend.Product{tee}, Count: 1},
		products: map[string]backend.Product{"tee": tee},
	}
}

func mountStore(t *testing.T, catalog *fakeCatalog) http.Handler {
	t.Helper()
	resolver, err := segments.NewResolver([]string{"it", "sm", "va"}, []string{"it", "en"})
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	mount, err := New().Mount(module.Dependencies{Segments: resolver, Catalog: catalog})
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return segments.Require(resolver, weberror.NotFound())(mount.Handler)
}

func serve(handler http.Handler, method string, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestMountRequiresCatalog(t *testing.T) {
	t.Parallel()

	if _, err := New().Mount(module.Dependencies{}); err == nil {
		t.Fatal("expected error without catalog")
	}
	if got := New().ID(); got != "store" {
		t.Fatalf("ID() = %q", got)
	}
}

func TestHomeRendersFeaturedProducts(t *testing.T) {
	t.Parallel()

	catalog := newCatalog()
	handler := mountStore(t, catalog)
	for _, target := range []string{"/it/en", "/it/en/"} {
		rr := serve(handler, http.MethodGet, target)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", target, rr.Code)
		}
		body := rr.Body.String()
		if !strings.Contains(body, `href="/it/en/products/tee"`) || !strings.Contains(body, "From €39.90") {
			t.Fatalf("%s: body = %s", target, body)
		}
	}
	want := backend.ProductQuery{RegionID: "reg_eu", Limit: featuredLimit}
	if diff := cmp.Diff(want, catalog.queries[0]); diff != "" {
		t.Fatalf("featured query mismatch (-want +got):\n%s", diff)
	}
}

func TestHomeSurvivesBackendFailure(t *testing.T) {
	t.Parallel()

	catalog := newCatalog()
	catalog.regionsErr = apperrors.E(apperrors.KindUnavailable, "backend down")
	rr := serve(mountStore(t, catalog), http.MethodGet, "/it/it")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "product-grid") {
		t.Fatalf("expected no featured grid: %s", rr.Body.String())
	}
}

func TestListPaginates(t *testing.T) {
	t.Parallel()

	catalog := newCatalog()
	catalog.page.Count = 30
	rr := serve(mountStore(t, catalog), http.MethodGet, "/it/en/store?page=2")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, marker := range []string{"Page 2 of 3", `href="/it/en/store" rel="prev"`, `href="/it/en/store?page=3"`} {
		if !strings.Contains(body, marker) {
			t.Fatalf("body missing %q:\n%s", marker, body)
		}
	}
	want := backend.ProductQuery{RegionID: "reg_eu", Limit: listPageSize, Offset: listPageSize}
	if diff := cmp.Diff(want, catalog.queries[0]); diff != "" {
		t.Fatalf("listing query mismatch (-want +got):\n%s", diff)
	}
}

func TestListRejectsBadPages(t *testing.T) {
	t.Parallel()

	handler := mountStore(t, newCatalog())
	for _, target := range []string{"/it/en/store?page=abc", "/it/en/store?page=0", "/it/en/store?page=9"} {
		if rr := serve(handler, http.MethodGet, target); rr.Code != http.StatusNotFound {
			t.Fatalf("%s: status = %d, want 404", target, rr.Code)
		}
	}
}

func TestProductRendersAvailabilityMatrix(t *testing.T) {
	t.Parallel()

	rr := serve(mountStore(t, newCatalog()), http.MethodGet, "/it/it/products/tee")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, marker := range []string{
		"<h1>Linen tee</h1>",
		"39,90",
		`data-level="low"`,
		`data-level="unavailable"`,
		`data-level="high"`,
		`data-level="missing"`,
	} {
		if !strings.Contains(body, marker) {
			t.Fatalf("body missing %q:\n%s", marker, body)
		}
	}
}

func TestProductNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		target  string
		catalog func() *fakeCatalog
	}{
		{name: "unknown handle", target: "/it/en/products/nope", catalog: newCatalog},
		{name: "nested path", target: "/it/en/products/tee/extra", catalog: newCatalog},
		{name: "country without region", target: "/va/en/products/tee", catalog: newCatalog},
		{name: "backend failure", target: "/it/en/products/tee", catalog: func() *fakeCatalog {
			c := newCatalog()
			c.regionsErr = errors.New("connection reset")
			return c
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := serve(mountStore(t, tc.catalog()), http.MethodGet, tc.target)
			if rr.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want 404", rr.Code)
			}
			if !strings.Contains(rr.Body.String(), "Page not found") {
				t.Fatalf("body = %s", rr.Body.String())
			}
		})
	}
}

func TestRejectsNonGet(t *testing.T) {
	t.Parallel()

	if rr := serve(mountStore(t, newCatalog()), http.MethodPost, "/it/en/store"); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rr.Code)
	}
}
