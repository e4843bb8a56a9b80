// Package segments resolves and validates the /{countryCode}/{lang} pair that
// prefixes every storefront URL.
package segments

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/httpx"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

// ErrNotFound marks a path whose segment pair is missing or not allowed.
var ErrNotFound = apperrors.EK(apperrors.KindNotFound, "error.not_found.title", "storefront segments not supported")

// Resolver validates segment pairs against the configured allow-lists.
type Resolver struct {
	countries []string
	langs     []string
}

// Result is a resolved request path.
type Result struct {
	Segments routepath.Segments
	// Rest is the path after the segment pair, without a leading slash.
	Rest string
	// Canonical reports whether the path already used the lowercase pair.
	Canonical bool
}

// NewResolver builds a resolver; the first country and language are defaults.
func NewResolver(countries []string, langs []string) (*Resolver, error) {
	r := &Resolver{countries: normalize(countries), langs: normalize(langs)}
	if len(r.countries) == 0 {
		return nil, fmt.Errorf("at least one country code is required")
	}
	if len(r.langs) == 0 {
		return nil, fmt.Errorf("at least one language is required")
	}
	return r, nil
}

// Countries returns the allowed country codes in configured order.
func (r *Resolver) Countries() []string {
	return slices.Clone(r.countries)
}

// Langs returns the allowed language codes in configured order.
func (r *Resolver) Langs() []string {
	return slices.Clone(r.langs)
}

// DefaultCountry returns the country used when the URL carries none.
func (r *Resolver) DefaultCountry() string {
	return r.countries[0]
}

// DefaultLang returns the language used when negotiation yields nothing allowed.
func (r *Resolver) DefaultLang() string {
	return r.langs[0]
}

// HasCountry reports whether code is allowed, ignoring case.
func (r *Resolver) HasCountry(code string) bool {
	return slices.Contains(r.countries, strings.ToLower(strings.TrimSpace(code)))
}

// HasLang reports whether code is allowed, ignoring case.
func (r *Resolver) HasLang(code string) bool {
	return slices.Contains(r.langs, strings.ToLower(strings.TrimSpace(code)))
}

// Valid reports whether seg is an allowed, canonical pair.
func (r *Resolver) Valid(seg routepath.Segments) bool {
	return slices.Contains(r.countries, seg.CountryCode) && slices.Contains(r.langs, seg.Lang)
}

// Resolve extracts and validates the segment pair from a URL path.
func (r *Resolver) Resolve(rawPath string) (Result, error) {
	parts := strings.SplitN(strings.TrimPrefix(rawPath, "/"), "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Result{}, ErrNotFound
	}
	seg := routepath.Segments{
		CountryCode: strings.ToLower(parts[0]),
		Lang:        strings.ToLower(parts[1]),
	}
	if !r.Valid(seg) {
		return Result{}, ErrNotFound
	}
	result := Result{
		Segments:  seg,
		Canonical: parts[0] == seg.CountryCode && parts[1] == seg.Lang,
	}
	if len(parts) == 3 {
		result.Rest = parts[2]
	}
	return result, nil
}

// Canonical returns the lowercase form of escapedPath, as produced by
// url.URL.EscapedPath, or ErrNotFound when the pair is not allowed. Only the
// segment pair is rewritten; the remainder keeps its escaping byte for byte.
func (r *Resolver) Canonical(escapedPath string) (string, error) {
	decoded, err := url.PathUnescape(escapedPath)
	if err != nil {
		return "", ErrNotFound
	}
	result, err := r.Resolve(decoded)
	if err != nil {
		return "", err
	}
	canonical := routepath.StorePath(result.Segments, "")
	if parts := strings.SplitN(strings.TrimPrefix(escapedPath, "/"), "/", 3); len(parts) == 3 {
		canonical += "/" + parts[2]
	}
	return canonical, nil
}

// Require resolves the segment pair of every request. Unknown pairs are
// handed to notFound; non-canonical casing is redirected permanently.
func Require(resolver *Resolver, notFound http.Handler) httpx.Middleware {
	if notFound == nil {
		notFound = http.NotFoundHandler()
	}
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result, err := resolver.Resolve(r.URL.Path)
			if err != nil {
				notFound.ServeHTTP(w, r)
				return
			}
			if !result.Canonical {
				location, err := resolver.Canonical(r.URL.EscapedPath())
				if err != nil {
					notFound.ServeHTTP(w, r)
					return
				}
				if r.URL.RawQuery != "" {
					location += "?" + r.URL.RawQuery
				}
				httpx.WriteRedirect(w, r, location, http.StatusPermanentRedirect)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSegments(r.Context(), result.Segments)))
		})
	}
}

type contextKey struct{}

// WithSegments stores seg in ctx.
func WithSegments(ctx context.Context, seg routepath.Segments) context.Context {
	return context.WithValue(ctx, contextKey{}, seg)
}

// FromContext returns the resolved segments stored by Require.
func FromContext(ctx context.Context) (routepath.Segments, bool) {
	if ctx == nil {
		return routepath.Segments{}, false
	}
	seg, ok := ctx.Value(contextKey{}).(routepath.Segments)
	return seg, ok
}

// FromRequest returns the resolved segments for r.
func FromRequest(r *http.Request) (routepath.Segments, bool) {
	if r == nil {
		return routepath.Segments{}, false
	}
	return FromContext(r.Context())
}

func normalize(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" || slices.Contains(out, value) {
			continue
		}
		out = append(out, value)
	}
	return out
}
