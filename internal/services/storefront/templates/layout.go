package templates

import (
	"strings"

	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

// Shell is the shared page chrome context.
type Shell struct {
	Title       string
	Lang        string
	Segments    routepath.Segments
	CurrentPath string
	Langs       []string
	// HasSegments is false for pages rendered outside /{countryCode}/{lang}.
	HasSegments bool
	Loc         Localizer
}

func (s Shell) documentTitle() string {
	appName := T(s.Loc, "core.app_name")
	if s.Title == "" {
		return appName
	}
	return s.Title + " · " + appName
}

// documentLang defaults to Italian for pages rendered before a language is
// resolved.
func (s Shell) documentLang() string {
	if s.Lang == "" {
		return "it"
	}
	return s.Lang
}

func (s Shell) countryLabel() string {
	return strings.ToUpper(s.Segments.CountryCode)
}
