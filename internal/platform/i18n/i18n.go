// Package i18n defines the supported storefront languages and tag matching.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

var supportedTags = []language.Tag{
	language.Italian,
	language.English,
}

var matcher = language.NewMatcher(supportedTags)

// SupportedTags returns the supported language tags; the first is the default.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supportedTags))
	copy(out, supportedTags)
	return out
}

// DefaultTag returns the default storefront language.
func DefaultTag() language.Tag {
	return supportedTags[0]
}

// SupportedCodes returns the URL language codes in preference order.
func SupportedCodes() []string {
	out := make([]string, 0, len(supportedTags))
	for _, tag := range supportedTags {
		out = append(out, Code(tag))
	}
	return out
}

// Code returns the lowercase two-letter URL code for tag.
func Code(tag language.Tag) string {
	base, _ := tag.Base()
	return strings.ToLower(base.String())
}

// ParseTag parses value and reports whether it is exactly one of the
// supported languages (regional variants such as it-CH count as it).
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTag(), false
	}
	parsed, err := language.Parse(value)
	if err != nil {
		return DefaultTag(), false
	}
	parsedBase, _ := parsed.Base()
	for _, tag := range supportedTags {
		base, _ := tag.Base()
		if base == parsedBase {
			return tag, true
		}
	}
	return DefaultTag(), false
}

// MatchTags picks the best supported tag for the caller's preferences.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supportedTags[index]
}

// MatchAcceptLanguage picks the best supported tag for an Accept-Language header.
func MatchAcceptLanguage(header string) language.Tag {
	header = strings.TrimSpace(header)
	if header == "" {
		return DefaultTag()
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return DefaultTag()
	}
	return MatchTags(tags)
}
