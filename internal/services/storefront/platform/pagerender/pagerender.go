// Package pagerender writes storefront pages inside the shared layout.
package pagerender

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"

	platformi18n "github.com/louisbranch/storefront/internal/platform/i18n"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/httpx"
	webi18n "github.com/louisbranch/storefront/internal/services/storefront/platform/i18n"
	"github.com/louisbranch/storefront/internal/services/storefront/segments"
	"github.com/louisbranch/storefront/internal/services/storefront/templates"
)

// Page describes one full-page response.
type Page struct {
	// Title is already localized.
	Title      string
	StatusCode int
	Fragment   templ.Component
}

// Write renders page within the layout. The body is buffered so a render
// failure never leaves a half-written 200 behind.
func Write(w http.ResponseWriter, r *http.Request, page Page) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	fragment := page.Fragment
	if fragment == nil {
		fragment = templ.NopComponent
	}

	loc, tag := webi18n.ResolveLocalizer(r)
	shell := templates.Shell{
		Title: page.Title,
		Lang:  platformi18n.Code(tag),
		Langs: platformi18n.SupportedCodes(),
		Loc:   loc,
	}
	if seg, ok := segments.FromRequest(r); ok {
		shell.Segments = seg
		shell.HasSegments = true
		shell.CurrentPath = r.URL.RequestURI()
	}

	var buf bytes.Buffer
	ctx := templ.WithChildren(httpx.RequestContext(r), fragment)
	if err := templates.Layout(shell).Render(ctx, &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
	return nil
}
