// Package weberror renders localized error responses for storefront modules.
package weberror

import (
	"log"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
	webi18n "github.com/louisbranch/storefront/internal/services/storefront/platform/i18n"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/pagerender"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
	"github.com/louisbranch/storefront/internal/services/storefront/segments"
	"github.com/louisbranch/storefront/internal/services/storefront/templates"
)

// ShouldRenderAppError reports whether status should use a full error page.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc webi18n.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		if key := apperrors.LocalizationKey(err); key != "" {
			if localized := strings.TrimSpace(loc.Sprintf(key)); localized != "" && localized != key {
				return localized
			}
		}
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	return http.StatusText(statusCode)
}

// NotFound renders the localized not-found page.
func NotFound() http.Handler {
	return http.HandlerFunc(WriteNotFound)
}

// WriteNotFound writes the localized not-found page with status 404.
func WriteNotFound(w http.ResponseWriter, r *http.Request) {
	if w == nil {
		return
	}
	loc, _ := webi18n.ResolveLocalizer(r)
	home := routepath.Root
	if seg, ok := segments.FromRequest(r); ok {
		home = routepath.StorePath(seg, "")
	}
	err := pagerender.Write(w, r, pagerender.Page{
		Title:      loc.Sprintf("error.not_found.title"),
		StatusCode: http.StatusNotFound,
		Fragment:   templates.NotFoundPage(home, loc),
	})
	if err != nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	}
}

// WriteAppError writes the localized error page for a 5xx status.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int) {
	if w == nil {
		return
	}
	if statusCode == http.StatusNotFound {
		WriteNotFound(w, r)
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	loc, _ := webi18n.ResolveLocalizer(r)
	message := loc.Sprintf("error.server.message")
	if statusCode == http.StatusServiceUnavailable {
		message = loc.Sprintf("error.unavailable")
	}
	title := loc.Sprintf("error.server.title")
	err := pagerender.Write(w, r, pagerender.Page{
		Title:      title,
		StatusCode: statusCode,
		Fragment:   templates.ErrorPage(title, message),
	})
	if err != nil {
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}

// WriteModuleError maps err to a status and writes a user-safe response;
// server-side failures are logged with their cause.
func WriteModuleError(w http.ResponseWriter, r *http.Request, err error) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode >= http.StatusInternalServerError && r != nil {
		log.Printf("request failed method=%s path=%s status=%d: %v", r.Method, r.URL.Path, statusCode, err)
	}
	if ShouldRenderAppError(statusCode) {
		WriteAppError(w, r, statusCode)
		return
	}
	loc, _ := webi18n.ResolveLocalizer(r)
	http.Error(w, PublicMessage(loc, err), statusCode)
}
