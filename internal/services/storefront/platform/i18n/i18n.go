// Package i18n resolves the request localizer from the URL language segment.
package i18n

import (
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	platformi18n "github.com/louisbranch/storefront/internal/platform/i18n"
	"github.com/louisbranch/storefront/internal/platform/i18n/catalog"
	"github.com/louisbranch/storefront/internal/services/storefront/segments"
)

// Localizer formats catalog messages for one language.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

func init() {
	// Loading the default bundle registers every catalog message.
	_ = catalog.Default()
}

// Printer returns a localizer for a URL language code; unknown codes fall
// back to the default language.
func Printer(lang string) (*message.Printer, language.Tag) {
	tag, _ := platformi18n.ParseTag(lang)
	return message.NewPrinter(tag), tag
}

// ResolveLocalizer picks the language from the resolved segments, then from
// Accept-Language for requests outside the segment tree.
func ResolveLocalizer(r *http.Request) (*message.Printer, language.Tag) {
	if seg, ok := segments.FromRequest(r); ok {
		return Printer(seg.Lang)
	}
	tag := platformi18n.DefaultTag()
	if r != nil {
		tag = platformi18n.MatchAcceptLanguage(r.Header.Get("Accept-Language"))
	}
	return message.NewPrinter(tag), tag
}
