// Package i18nhttp resolves the request language for HTTP handlers.
package i18nhttp

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	platformi18n "github.com/louisbranch/dualidade/internal/platform/i18n"
	"github.com/louisbranch/dualidade/internal/platform/requestctx"
	"golang.org/x/text/language"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "dualidade_lang"
)

// LanguageOption represents a supported language option in UI surfaces.
type LanguageOption struct {
	Tag    string
	Label  string
	URL    string
	Active bool
}

// ResolveTag determines the best language tag for the request: the lang
// query parameter, then the cookie, then Accept-Language. The bool
// indicates whether the query parameter should be persisted as a cookie.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return platformi18n.DefaultTag(), false
	}
	if langValue := strings.TrimSpace(r.URL.Query().Get(LangParam)); langValue != "" {
		if tag, ok := platformi18n.ParseTag(langValue); ok {
			return tag, true
		}
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := platformi18n.ParseTag(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return platformi18n.MatchTags(tags), false
		}
	}
	return platformi18n.DefaultTag(), false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware resolves the request language and stores it in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tag, persist := ResolveTag(r)
		if persist {
			SetLanguageCookie(w, tag)
		}
		next.ServeHTTP(w, r.WithContext(requestctx.WithLocale(r.Context(), tag)))
	})
}

// TagFromRequest returns the language stored by Middleware, resolving it
// again when the middleware did not run.
func TagFromRequest(r *http.Request) language.Tag {
	if r != nil {
		if tag, ok := requestctx.LocaleFromContext(r.Context()); ok {
			return tag
		}
	}
	tag, _ := ResolveTag(r)
	return tag
}

// BuildLanguageOptions lists supported languages with the active one marked.
func BuildLanguageOptions(active language.Tag, path string, rawQuery string, labelForKey func(key string) string) []LanguageOption {
	supported := platformi18n.SupportedTags()
	options := make([]LanguageOption, 0, len(supported))
	for _, tag := range supported {
		label := tag.String()
		if labelForKey != nil {
			if resolved := strings.TrimSpace(labelForKey(LanguageKeyLabel(tag))); resolved != "" {
				label = resolved
			}
		}
		options = append(options, LanguageOption{
			Tag:    tag.String(),
			Label:  label,
			URL:    LanguageURL(path, rawQuery, tag.String()),
			Active: tag == active,
		})
	}
	return options
}

// LanguageURL returns the current URL with the language param updated.
func LanguageURL(path string, rawQuery string, tag string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/"
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Set(LangParam, tag)
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}

// LanguageKeyLabel maps a language tag to its catalog label key.
func LanguageKeyLabel(tag language.Tag) string {
	switch platformi18n.Locale(tag) {
	case "pt-BR":
		return "core.lang.pt_br"
	case "en-US":
		return "core.lang.en_us"
	default:
		return tag.String()
	}
}
