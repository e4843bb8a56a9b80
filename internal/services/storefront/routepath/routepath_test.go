package routepath

import (
	"strings"
	"testing"
)

func TestCanonicalExamples(t *testing.T) {
	t.Parallel()

	if got := AccountPath(Segments{CountryCode: "it", Lang: "en"}, "/orders"); got != "/it/en/account/orders" {
		t.Fatalf("AccountPath() = %q", got)
	}
	if got := StorePath(Segments{CountryCode: "it", Lang: "it"}, ""); got != "/it/it" {
		t.Fatalf("StorePath() = %q", got)
	}
}

func TestBuildersNeverEmitDoubleSlashes(t *testing.T) {
	t.Parallel()

	subpaths := []string{"", "/", "orders", "/orders", "//orders", "orders/", "/orders//order_1/", "///"}
	for _, country := range []string{"it", "sm", "va"} {
		for _, lang := range []string{"it", "en"} {
			seg := Segments{CountryCode: country, Lang: lang}
			for _, subpath := range subpaths {
				for _, got := range []string{StorePath(seg, subpath), AccountPath(seg, subpath), WithSegments(seg, subpath)} {
					if !strings.HasPrefix(got, "/"+country+"/"+lang) {
						t.Fatalf("path %q lost its segment prefix (subpath %q)", got, subpath)
					}
					if strings.Contains(got, "//") {
						t.Fatalf("path %q contains a double slash (subpath %q)", got, subpath)
					}
					if strings.HasSuffix(got, "/") {
						t.Fatalf("path %q has a trailing slash (subpath %q)", got, subpath)
					}
				}
			}
		}
	}
}

func TestBuilders(t *testing.T) {
	t.Parallel()

	seg := Segments{CountryCode: "it", Lang: "en"}
	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "account root", got: AccountPath(seg, ""), want: "/it/en/account"},
		{name: "store subpath", got: StorePath(seg, "store"), want: "/it/en/store"},
		{name: "with segments keeps query", got: WithSegments(seg, "/store?page=2"), want: "/it/en/store?page=2"},
		{name: "with segments keeps fragment", got: WithSegments(seg, "account#orders"), want: "/it/en/account#orders"},
		{name: "product", got: ProductPath(seg, "t-shirt"), want: "/it/en/products/t-shirt"},
		{name: "product escapes", got: ProductPath(seg, "a b"), want: "/it/en/products/a%20b"},
		{name: "store first page", got: StoreListPath(seg, 1), want: "/it/en/store"},
		{name: "store later page", got: StoreListPath(seg, 3), want: "/it/en/store?page=3"},
		{name: "order", got: OrderPath(seg, "order_01"), want: "/it/en/account/orders/order_01"},
		{name: "quote", got: QuotePath(seg, "quo_01"), want: "/it/en/account/quotes/quo_01"},
		{name: "login", got: LoginPath(seg), want: "/it/en/account/login"},
		{name: "logout", got: LogoutPath(seg), want: "/it/en/account/logout"},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, tc.got, tc.want)
		}
	}
}

func TestBuildersDoNotValidate(t *testing.T) {
	t.Parallel()

	if got := StorePath(Segments{CountryCode: "zz", Lang: "xx"}, "store"); got != "/zz/xx/store" {
		t.Fatalf("StorePath() = %q", got)
	}
}

func TestSwitchLang(t *testing.T) {
	t.Parallel()

	seg := Segments{CountryCode: "it", Lang: "it"}
	tests := []struct {
		current string
		want    string
	}{
		{current: "/it/it", want: "/it/en"},
		{current: "/it/it/account/orders", want: "/it/en/account/orders"},
		{current: "/it/it/store?page=2", want: "/it/en/store?page=2"},
		{current: "/it/itx", want: "/it/en"},
		{current: "/elsewhere", want: "/it/en"},
	}
	for _, tc := range tests {
		if got := SwitchLang(seg, tc.current, "en"); got != tc.want {
			t.Fatalf("SwitchLang(%q) = %q, want %q", tc.current, got, tc.want)
		}
	}
}

func TestPatterns(t *testing.T) {
	t.Parallel()

	if HomePattern != "/{countryCode}/{lang}/{$}" {
		t.Fatalf("HomePattern = %q", HomePattern)
	}
	if AccountOrderPattern != "/{countryCode}/{lang}/account/orders/{orderID}" {
		t.Fatalf("AccountOrderPattern = %q", AccountOrderPattern)
	}
	if ProductPattern != "/{countryCode}/{lang}/products/{handle}" {
		t.Fatalf("ProductPattern = %q", ProductPattern)
	}
}
