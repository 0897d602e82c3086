// Package i18n resolves request locales and localizes user-facing error
// descriptions for the bridge's HTTP surface.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

const (
	// DefaultLocale is the canonical source locale for catalogs.
	DefaultLocale = "en-US"
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
)

var supportedTags = []language.Tag{
	language.AmericanEnglish,
	language.MustParse("pt-BR"),
}

var tagMatcher = language.NewMatcher(supportedTags)
var supportedTagSet = make(map[string]language.Tag, len(supportedTags))

func init() {
	for _, tag := range supportedTags {
		supportedTagSet[tag.String()] = tag
	}
}

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// ResolveLocale determines the best supported locale for the request.
// The lang query parameter wins over Accept-Language; anything the
// matcher cannot place resolves to DefaultLocale.
func ResolveLocale(r *http.Request) string {
	if r == nil {
		return DefaultLocale
	}

	if langValue := strings.TrimSpace(r.URL.Query().Get(LangParam)); langValue != "" {
		if locale, ok := parseLocale(langValue); ok {
			return locale
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			_, index, _ := tagMatcher.Match(tags...)
			return supportedTags[index].String()
		}
	}

	return DefaultLocale
}

func parseLocale(value string) (string, bool) {
	parsed, err := language.Parse(value)
	if err != nil {
		return "", false
	}
	if tag, ok := supportedTagSet[parsed.String()]; ok {
		return tag.String(), true
	}
	return "", false
}
