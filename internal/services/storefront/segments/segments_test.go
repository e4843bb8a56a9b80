package segments

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	resolver, err := NewResolver([]string{"it", "sm", "va"}, []string{"it", "en"})
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	return resolver
}

func TestNewResolverRequiresAllowLists(t *testing.T) {
	t.Parallel()

	if _, err := NewResolver(nil, []string{"it"}); err == nil {
		t.Fatal("expected error for empty countries")
	}
	if _, err := NewResolver([]string{"it"}, []string{" "}); err == nil {
		t.Fatal("expected error for blank languages")
	}
}

func TestNewResolverNormalizes(t *testing.T) {
	t.Parallel()

	resolver, err := NewResolver([]string{" IT ", "sm", "it"}, []string{"EN", "it"})
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	if diff := cmp.Diff([]string{"it", "sm"}, resolver.Countries()); diff != "" {
		t.Fatalf("countries mismatch (-want +got):\n%s", diff)
	}
	if resolver.DefaultCountry() != "it" || resolver.DefaultLang() != "en" {
		t.Fatalf("defaults = %q/%q", resolver.DefaultCountry(), resolver.DefaultLang())
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t)
	tests := []struct {
		path string
		want Result
	}{
		{path: "/it/it", want: Result{Segments: routepath.Segments{CountryCode: "it", Lang: "it"}, Canonical: true}},
		{path: "/it/en/", want: Result{Segments: routepath.Segments{CountryCode: "it", Lang: "en"}, Canonical: true}},
		{path: "/sm/en/account/orders", want: Result{Segments: routepath.Segments{CountryCode: "sm", Lang: "en"}, Rest: "account/orders", Canonical: true}},
		{path: "/IT/En/store", want: Result{Segments: routepath.Segments{CountryCode: "it", Lang: "en"}, Rest: "store", Canonical: false}},
	}
	for _, tc := range tests {
		got, err := resolver.Resolve(tc.path)
		if err != nil {
			t.Fatalf("Resolve(%q) error = %v", tc.path, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("Resolve(%q) mismatch (-want +got):\n%s", tc.path, diff)
		}
	}
}

func TestResolveRejectsEveryInvalidPair(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t)
	countries := []string{"it", "sm", "va", "fr", "de", "xx", ""}
	langs := []string{"it", "en", "fr", "de", "zz", ""}
	for _, country := range countries {
		for _, lang := range langs {
			valid := resolver.HasCountry(country) && resolver.HasLang(lang) && country != "" && lang != ""
			_, err := resolver.Resolve("/" + country + "/" + lang + "/store")
			if valid && err != nil {
				t.Fatalf("Resolve(%s/%s) error = %v", country, lang, err)
			}
			if !valid {
				if !errors.Is(err, ErrNotFound) {
					t.Fatalf("Resolve(%s/%s) error = %v, want ErrNotFound", country, lang, err)
				}
				if apperrors.HTTPStatus(err) != http.StatusNotFound {
					t.Fatalf("Resolve(%s/%s) status = %d", country, lang, apperrors.HTTPStatus(err))
				}
			}
		}
	}
}

func TestResolveRejectsShortPaths(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t)
	for _, path := range []string{"", "/", "/it", "/it/", "//it"} {
		if _, err := resolver.Resolve(path); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Resolve(%q) error = %v, want ErrNotFound", path, err)
		}
	}
}

func TestCanonical(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t)
	tests := map[string]string{
		"/IT/EN":                "/it/en",
		"/IT/EN/":               "/it/en/",
		"/Sm/It/account/Orders": "/sm/it/account/Orders",
		"/IT/EN/products/a%3Fb": "/it/en/products/a%3Fb",
		"/IT/EN/products/a%2Fb": "/it/en/products/a%2Fb",
	}
	for path, want := range tests {
		got, err := resolver.Canonical(path)
		if err != nil {
			t.Fatalf("Canonical(%q) error = %v", path, err)
		}
		if got != want {
			t.Fatalf("Canonical(%q) = %q, want %q", path, got, want)
		}
	}
	if _, err := resolver.Canonical("/fr/en"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Canonical(/fr/en) error = %v", err)
	}
}

func TestRequire(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t)
	notFound := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	var seen routepath.Segments
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seg, ok := FromRequest(r)
		if !ok {
			t.Error("segments missing from request context")
		}
		seen = seg
		w.WriteHeader(http.StatusOK)
	})
	h := Require(resolver, notFound)(next)

	t.Run("valid", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/va/en/store", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
		}
		if seen != (routepath.Segments{CountryCode: "va", Lang: "en"}) {
			t.Fatalf("segments = %+v", seen)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/fr/en/store", nil))
		if rr.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
		}
	})

	t.Run("non canonical", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/IT/EN/store?page=2", nil))
		if rr.Code != http.StatusPermanentRedirect {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusPermanentRedirect)
		}
		if got := rr.Header().Get("Location"); got != "/it/en/store?page=2" {
			t.Fatalf("Location = %q", got)
		}
	})
}

func TestRequireRedirectKeepsEscapedPath(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t)
	h := Require(resolver, http.NotFoundHandler())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	tests := []struct {
		target string
		want   string
	}{
		{target: "/IT/EN/products/a%3Fb", want: "/it/en/products/a%3Fb"},
		{target: "/IT/EN/products/a%2Fb", want: "/it/en/products/a%2Fb"},
		{target: "/IT/EN/products/caff%C3%A8?page=2", want: "/it/en/products/caff%C3%A8?page=2"},
		{target: "/It/It/products/linen%20tee", want: "/it/it/products/linen%20tee"},
	}
	for _, tc := range tests {
		t.Run(tc.target, func(t *testing.T) {
			t.Parallel()

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.target, nil))
			if rr.Code != http.StatusPermanentRedirect {
				t.Fatalf("status = %d, want %d", rr.Code, http.StatusPermanentRedirect)
			}
			if got := rr.Header().Get("Location"); got != tc.want {
				t.Fatalf("Location = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFromContextWithoutSegments(t *testing.T) {
	t.Parallel()

	if _, ok := FromRequest(nil); ok {
		t.Fatal("nil request should have no segments")
	}
	if _, ok := FromRequest(httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Fatal("plain request should have no segments")
	}
}
