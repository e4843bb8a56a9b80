package public

import (
	"net/http"
	"strings"

	platformi18n "github.com/louisbranch/storefront/internal/platform/i18n"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/httpx"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/weberror"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
	"github.com/louisbranch/storefront/internal/services/storefront/segments"
)

type handlers struct {
	resolver *segments.Resolver
}

func newHandlers(resolver *segments.Resolver) handlers {
	return handlers{resolver: resolver}
}

func (handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteText(w, http.StatusOK, "ok")
}

func (h handlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	seg := routepath.Segments{CountryCode: h.resolver.DefaultCountry(), Lang: h.negotiateLang(r)}
	httpx.WriteRedirect(w, r, routepath.StorePath(seg, ""), http.StatusFound)
}

func (h handlers) handleCountry(w http.ResponseWriter, r *http.Request) {
	country := strings.ToLower(strings.TrimSpace(r.PathValue(routepath.CountryCodeParam)))
	if !h.resolver.HasCountry(country) {
		weberror.WriteNotFound(w, r)
		return
	}
	seg := routepath.Segments{CountryCode: country, Lang: h.negotiateLang(r)}
	httpx.WriteRedirect(w, r, routepath.StorePath(seg, ""), http.StatusFound)
}

func (h handlers) negotiateLang(r *http.Request) string {
	lang := platformi18n.Code(platformi18n.MatchAcceptLanguage(r.Header.Get("Accept-Language")))
	if h.resolver.HasLang(lang) {
		return lang
	}
	return h.resolver.DefaultLang()
}
