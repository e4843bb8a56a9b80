package requestmeta

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsHTTPS(t *testing.T) {
	t.Parallel()

	plain := httptest.NewRequest(http.MethodGet, "http://shop.example/it/it", nil)
	if IsHTTPS(plain, SchemePolicy{}) {
		t.Fatal("plain request reported as https")
	}

	secure := httptest.NewRequest(http.MethodGet, "/it/it", nil)
	secure.TLS = &tls.ConnectionState{}
	if !IsHTTPS(secure, SchemePolicy{}) {
		t.Fatal("tls request reported as http")
	}

	proxied := httptest.NewRequest(http.MethodGet, "/it/it", nil)
	proxied.Header.Set("X-Forwarded-Proto", "https")
	if IsHTTPS(proxied, SchemePolicy{}) {
		t.Fatal("forwarded proto trusted without policy")
	}
	if !IsHTTPS(proxied, SchemePolicy{TrustForwardedProto: true}) {
		t.Fatal("forwarded proto ignored with trust policy")
	}
}

func TestHasSameOriginProof(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		origin  string
		referer string
		want    bool
	}{
		{name: "matching origin", origin: "http://shop.example", want: true},
		{name: "explicit default port", origin: "http://shop.example:80", want: true},
		{name: "matching referer", referer: "http://shop.example/it/it/account", want: true},
		{name: "foreign origin", origin: "http://evil.example", want: false},
		{name: "scheme mismatch", origin: "https://shop.example", want: false},
		{name: "port mismatch", origin: "http://shop.example:8080", want: false},
		{name: "origin wins over referer", origin: "http://evil.example", referer: "http://shop.example/", want: false},
		{name: "no proof", want: false},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodPost, "http://shop.example/it/it/account/logout", nil)
		if tc.origin != "" {
			req.Header.Set("Origin", tc.origin)
		}
		if tc.referer != "" {
			req.Header.Set("Referer", tc.referer)
		}
		if got := HasSameOriginProof(req, SchemePolicy{}); got != tc.want {
			t.Fatalf("%s: HasSameOriginProof() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestHasSameOriginProofBehindProxy(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "http://shop.example/it/it/account/login", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("Origin", "https://shop.example")
	if !HasSameOriginProof(req, SchemePolicy{TrustForwardedProto: true}) {
		t.Fatal("expected proof behind trusted proxy")
	}
	if HasSameOriginProof(req, SchemePolicy{}) {
		t.Fatal("expected scheme mismatch without trusted proxy")
	}
}
