// Package i18n resolves the UI languages the companion supports.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	// Registers the embedded catalogs with x/text.
	_ "github.com/louisbranch/dualidade/internal/platform/i18n/catalog"
)

var supported = []language.Tag{
	language.BrazilianPortuguese,
	language.AmericanEnglish,
}

var matcher = language.NewMatcher(supported)

// SupportedTags returns the supported languages, default first.
func SupportedTags() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// DefaultTag is the language used when nothing else matches.
func DefaultTag() language.Tag {
	return supported[0]
}

// ParseTag parses value and reports whether it maps to a supported language.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTag(), false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return DefaultTag(), false
	}
	matched, _, conf := matcher.Match(tag)
	if conf == language.No {
		return DefaultTag(), false
	}
	return normalize(matched), true
}

// MatchTags picks the best supported language for a preference list.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	matched, _, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultTag()
	}
	return normalize(matched)
}

// Printer returns a printer that resolves catalog keys for tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// Locale returns the catalog locale name for tag, e.g. "pt-BR".
func Locale(tag language.Tag) string {
	return normalize(tag).String()
}

// Matcher results may carry -u-rg extensions; map them back to the exact
// supported tag so they can key catalogs.
func normalize(tag language.Tag) language.Tag {
	base, _ := tag.Base()
	for _, s := range supported {
		if sb, _ := s.Base(); sb == base {
			return s
		}
	}
	return DefaultTag()
}
