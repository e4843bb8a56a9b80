// Package routepath builds canonical storefront paths under the
// /{countryCode}/{lang} segment pair.
//
// Builders never validate segment values; the segment resolver owns that.
package routepath

import (
	"net/url"
	"strconv"
	"strings"
)

// Segments is the country/language pair carried by every storefront URL.
type Segments struct {
	CountryCode string
	Lang        string
}

const (
	Root         = "/"
	Health       = "/up"
	StaticPrefix = "/static/"

	CountryCodeParam = "countryCode"
	LangParam        = "lang"
	SegmentPattern   = "/{" + CountryCodeParam + "}/{" + LangParam + "}"

	StoreSegment    = "store"
	ProductsSegment = "products"
	AccountSegment  = "account"
	OrdersSegment   = "orders"
	QuotesSegment   = "quotes"
	ProfileSegment  = "profile"
	LoginSegment    = "login"
	LogoutSegment   = "logout"

	PageQueryKey = "page"
)

// Mux patterns for routes under the segment pair.
const (
	HomePattern           = SegmentPattern + "/{$}"
	StorePattern          = SegmentPattern + "/" + StoreSegment
	ProductsPrefix        = SegmentPattern + "/" + ProductsSegment + "/"
	ProductPattern        = ProductsPrefix + "{handle}"
	AccountPrefix         = SegmentPattern + "/" + AccountSegment + "/"
	AccountPattern        = SegmentPattern + "/" + AccountSegment
	AccountHomePattern    = AccountPrefix + "{$}"
	AccountOrdersPattern  = AccountPrefix + OrdersSegment
	AccountOrderPattern   = AccountPrefix + OrdersSegment + "/{orderID}"
	AccountQuotesPattern  = AccountPrefix + QuotesSegment
	AccountQuotePattern   = AccountPrefix + QuotesSegment + "/{quoteID}"
	AccountProfilePattern = AccountPrefix + ProfileSegment
	AccountLoginPattern   = AccountPrefix + LoginSegment
	AccountLogoutPattern  = AccountPrefix + LogoutSegment
	AccountRestPattern    = AccountPrefix + "{rest...}"
	ProductsRestPattern   = ProductsPrefix + "{rest...}"
)

// Prefix returns "/{countryCode}/{lang}".
func Prefix(seg Segments) string {
	return "/" + seg.CountryCode + "/" + seg.Lang
}

// StorePath joins subpath under the segment prefix. An empty subpath yields
// the storefront home, e.g. "/it/it".
func StorePath(seg Segments, subpath string) string {
	return join(Prefix(seg), subpath)
}

// AccountPath joins subpath under the account root, e.g.
// AccountPath({it en}, "/orders") is "/it/en/account/orders".
func AccountPath(seg Segments, subpath string) string {
	return join(Prefix(seg)+"/"+AccountSegment, subpath)
}

// WithSegments prefixes a raw site-relative reference with the segment pair.
// Query string and fragment in raw are kept as written.
func WithSegments(seg Segments, raw string) string {
	pathPart, suffix := splitSuffix(raw)
	return join(Prefix(seg), pathPart) + suffix
}

// ProductPath returns the product detail route.
func ProductPath(seg Segments, handle string) string {
	return StorePath(seg, ProductsSegment+"/"+escapeSegment(handle))
}

// StoreListPath returns the product listing route for page, omitting the
// page parameter for the first page.
func StoreListPath(seg Segments, page int) string {
	path := StorePath(seg, StoreSegment)
	if page <= 1 {
		return path
	}
	return path + "?" + PageQueryKey + "=" + strconv.Itoa(page)
}

// OrderPath returns the account order detail route.
func OrderPath(seg Segments, orderID string) string {
	return AccountPath(seg, OrdersSegment+"/"+escapeSegment(orderID))
}

// QuotePath returns the account quote detail route.
func QuotePath(seg Segments, quoteID string) string {
	return AccountPath(seg, QuotesSegment+"/"+escapeSegment(quoteID))
}

// LoginPath returns the login form action.
func LoginPath(seg Segments) string {
	return AccountPath(seg, LoginSegment)
}

// LogoutPath returns the logout form action.
func LogoutPath(seg Segments) string {
	return AccountPath(seg, LogoutSegment)
}

// SwitchLang rebuilds currentPath with lang replacing the current language.
// Paths outside seg's prefix fall back to the home page in lang.
func SwitchLang(seg Segments, currentPath string, lang string) string {
	target := Segments{CountryCode: seg.CountryCode, Lang: lang}
	pathPart, suffix := splitSuffix(currentPath)
	prefix := Prefix(seg)
	switch {
	case pathPart == prefix:
		return Prefix(target) + suffix
	case strings.HasPrefix(pathPart, prefix+"/"):
		return StorePath(target, strings.TrimPrefix(pathPart, prefix)) + suffix
	default:
		return StorePath(target, "")
	}
}

// join appends subpath to base with exactly one slash between them.
func join(base string, subpath string) string {
	subpath = collapseSlashes(strings.Trim(subpath, "/"))
	if subpath == "" {
		return base
	}
	return base + "/" + subpath
}

func collapseSlashes(value string) string {
	if !strings.Contains(value, "//") {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	previousSlash := false
	for _, r := range value {
		if r == '/' {
			if previousSlash {
				continue
			}
			previousSlash = true
		} else {
			previousSlash = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// splitSuffix separates a raw reference into its path and "?query#fragment".
func splitSuffix(raw string) (string, string) {
	idx := strings.IndexAny(raw, "?#")
	if idx < 0 {
		return raw, ""
	}
	return raw[:idx], raw[idx:]
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
